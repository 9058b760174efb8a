package event

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/ordering"
	"github.com/storefront/backend/internal/domain/shared"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
	panics   bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.received = append(h.received, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func paymentEvent(t *testing.T) shared.DomainEvent {
	t.Helper()
	order, err := ordering.NewOrder(1, uuid.New(), nil, []ordering.OrderLine{
		{ProductID: uuid.New(), ProductName: "Rice", Quantity: 1, PriceAtPurchase: 2500},
	})
	require.NoError(t, err)
	require.NoError(t, order.ConfirmPayment(uuid.New(), ordering.PaymentMethodCash))

	events := order.GetDomainEvents()
	require.Len(t, events, 2)
	return events[1]
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to matching handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{ordering.EventTypeOrderPaymentConfirmed}}
		bus.Subscribe(handler)

		event := paymentEvent(t)
		require.NoError(t, bus.Publish(ctx, event))

		require.Len(t, handler.received, 1)
		assert.Equal(t, event.EventID(), handler.received[0].EventID())
	})

	t.Run("skips handlers for other event types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{ordering.EventTypeOrderCancelled}}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, paymentEvent(t)))

		assert.Empty(t, handler.received)
	})

	t.Run("wildcard handler receives all events", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, paymentEvent(t)))

		assert.Len(t, handler.received, 1)
	})

	t.Run("a failing handler does not block the rest", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{types: []string{ordering.EventTypeOrderPaymentConfirmed}, err: assert.AnError}
		healthy := &recordingHandler{types: []string{ordering.EventTypeOrderPaymentConfirmed}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, paymentEvent(t)))

		assert.Len(t, healthy.received, 1)
	})

	t.Run("a panicking handler is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &recordingHandler{types: []string{ordering.EventTypeOrderPaymentConfirmed}, panics: true}
		healthy := &recordingHandler{types: []string{ordering.EventTypeOrderPaymentConfirmed}}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, paymentEvent(t)))

		assert.Len(t, healthy.received, 1)
	})
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{ordering.EventTypeOrderPaymentConfirmed}}
	bus.Subscribe(handler)

	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(ctx, paymentEvent(t)))
	assert.Empty(t, handler.received)
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryEventBus(zap.NewNop())

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Stop(ctx))
}
