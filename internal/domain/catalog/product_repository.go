package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductRepository defines the persistence interface for products
type ProductRepository interface {
	shared.Repository[Product]

	// FindByIDs returns the products with the given IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// SaveWithLock saves the product using optimistic locking on the
	// version column. Returns ErrConcurrencyConflict when the stored
	// version no longer matches.
	SaveWithLock(ctx context.Context, product *Product, expectedVersion int) error

	// ReserveStock atomically decrements a product's stock by qty,
	// succeeding only when at least qty units remain. Returns
	// ErrInsufficientStock when the product exists but cannot cover
	// the quantity, ErrNotFound when it does not exist.
	ReserveStock(ctx context.Context, productID uuid.UUID, qty int64) error

	// RestoreStock atomically returns qty units to a product's stock
	RestoreStock(ctx context.Context, productID uuid.UUID, qty int64) error
}
