package ordering

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderRepository defines the persistence interface for orders
type OrderRepository interface {
	shared.Repository[Order]

	// FindByOrderNumber returns the order with the given sequential number
	FindByOrderNumber(ctx context.Context, orderNumber int64) (*Order, error)

	// FindByClientID returns the client's orders, newest first
	FindByClientID(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]Order, error)

	// CountByClientID counts the client's orders matching the filter
	CountByClientID(ctx context.Context, clientID uuid.UUID, filter shared.Filter) (int64, error)

	// SaveWithLock saves the order using optimistic locking on the
	// version column. Returns ErrConcurrencyConflict when the stored
	// version no longer matches.
	SaveWithLock(ctx context.Context, order *Order, expectedVersion int) error

	// NextOrderNumber allocates the next sequential order number.
	// Must be called inside the transaction that persists the order.
	NextOrderNumber(ctx context.Context) (int64, error)
}
