package catalog

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/ordering"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultLowStockThreshold is used when no threshold is configured
const DefaultLowStockThreshold = 5

// LowStockHandler watches order placements and logs a warning when a
// purchase drains a product to or below the restock threshold.
type LowStockHandler struct {
	productRepo catalog.ProductRepository
	threshold   int64
	logger      *zap.Logger
}

// NewLowStockHandler creates a new handler for order created events
func NewLowStockHandler(productRepo catalog.ProductRepository, threshold int64, logger *zap.Logger) *LowStockHandler {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return &LowStockHandler{
		productRepo: productRepo,
		threshold:   threshold,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{ordering.EventTypeOrderCreated}
}

// Handle processes an OrderCreatedEvent
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	createdEvent, ok := event.(*ordering.OrderCreatedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", ordering.EventTypeOrderCreated),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			ordering.EventTypeOrderCreated, event.EventType())
	}

	for _, line := range createdEvent.Lines {
		product, err := h.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			h.logger.Warn("failed to check stock level",
				zap.String("product_id", line.ProductID.String()),
				zap.Error(err))
			continue
		}

		if product.StockQuantity <= h.threshold {
			h.logger.Warn("product stock is running low",
				zap.String("product_id", product.ID.String()),
				zap.String("name", product.Name),
				zap.Int64("stock_quantity", product.StockQuantity),
				zap.Int64("threshold", h.threshold),
			)
		}
	}

	return nil
}

// Ensure LowStockHandler implements the event handler interface
var _ shared.EventHandler = (*LowStockHandler)(nil)
