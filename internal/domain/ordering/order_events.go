package ordering

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated          = "OrderCreated"
	EventTypeOrderPaymentConfirmed = "OrderPaymentConfirmed"
	EventTypeOrderDispatched       = "OrderDispatched"
	EventTypeOrderCancelled        = "OrderCancelled"
)

// OrderCreatedLine is the per-line payload carried by OrderCreatedEvent
type OrderCreatedLine struct {
	ProductID       uuid.UUID `json:"product_id"`
	Quantity        int64     `json:"quantity"`
	PriceAtPurchase int64     `json:"price_at_purchase"`
}

// OrderCreatedEvent is published when a new order is placed
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID          `json:"order_id"`
	OrderNumber int64              `json:"order_number"`
	ClientID    uuid.UUID          `json:"client_id"`
	SellerID    *uuid.UUID         `json:"seller_id,omitempty"`
	TotalAmount int64              `json:"total_amount"`
	Lines       []OrderCreatedLine `json:"lines"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	lines := make([]OrderCreatedLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, OrderCreatedLine{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		ClientID:        order.ClientID,
		SellerID:        order.SellerID,
		TotalAmount:     order.TotalAmount,
		Lines:           lines,
	}
}

// OrderPaymentConfirmedEvent is published when a cashier confirms payment
type OrderPaymentConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID     `json:"order_id"`
	OrderNumber   int64         `json:"order_number"`
	CashierID     uuid.UUID     `json:"cashier_id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	TotalAmount   int64         `json:"total_amount"`
}

// NewOrderPaymentConfirmedEvent creates a new OrderPaymentConfirmedEvent
func NewOrderPaymentConfirmedEvent(order *Order) *OrderPaymentConfirmedEvent {
	return &OrderPaymentConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaymentConfirmed, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CashierID:       *order.CashierID,
		PaymentMethod:   order.PaymentMethod,
		TotalAmount:     order.TotalAmount,
	}
}

// OrderDispatchedEvent is published when an order is handed to the client
type OrderDispatchedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID `json:"order_id"`
	OrderNumber  int64     `json:"order_number"`
	DispatcherID uuid.UUID `json:"dispatcher_id"`
}

// NewOrderDispatchedEvent creates a new OrderDispatchedEvent
func NewOrderDispatchedEvent(order *Order) *OrderDispatchedEvent {
	return &OrderDispatchedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDispatched, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		DispatcherID:    *order.DispatcherID,
	}
}

// OrderCancelledEvent is published when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID          `json:"order_id"`
	OrderNumber int64              `json:"order_number"`
	Reason      string             `json:"reason,omitempty"`
	Lines       []OrderCreatedLine `json:"lines"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(order *Order) *OrderCancelledEvent {
	lines := make([]OrderCreatedLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, OrderCreatedLine{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		Reason:          order.CancelReason,
		Lines:           lines,
	}
}
