package persistence

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

func createTestProduct(t *testing.T, repo *GormProductRepository, name string, price, stock int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, "", price, stock)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), product))
	return product
}

func TestGormProductRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	product := createTestProduct(t, repo, "Rice 5kg", 2500, 10)

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rice 5kg", found.Name)
	assert.Equal(t, int64(2500), found.Price)
	assert.Equal(t, int64(10), found.StockQuantity)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepository_FindByIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p1 := createTestProduct(t, repo, "Rice", 2500, 10)
	p2 := createTestProduct(t, repo, "Beans", 1200, 5)
	createTestProduct(t, repo, "Flour", 900, 3)

	products, err := repo.FindByIDs(ctx, []uuid.UUID{p1.ID, p2.ID})
	require.NoError(t, err)
	assert.Len(t, products, 2)

	products, err = repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestGormProductRepository_ReserveStock(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements stock when enough remains", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormProductRepository(db)
		product := createTestProduct(t, repo, "Rice", 2500, 10)

		require.NoError(t, repo.ReserveStock(ctx, product.ID, 4))

		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(6), found.StockQuantity)
	})

	t.Run("allows reserving the exact remaining stock", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormProductRepository(db)
		product := createTestProduct(t, repo, "Rice", 2500, 10)

		require.NoError(t, repo.ReserveStock(ctx, product.ID, 10))

		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), found.StockQuantity)
	})

	t.Run("fails when stock is insufficient", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormProductRepository(db)
		product := createTestProduct(t, repo, "Rice", 2500, 3)

		err := repo.ReserveStock(ctx, product.ID, 4)
		require.ErrorIs(t, err, shared.ErrInsufficientStock)

		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), found.StockQuantity, "stock must be untouched")
	})

	t.Run("fails with not found for unknown product", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormProductRepository(db)

		err := repo.ReserveStock(ctx, uuid.New(), 1)
		require.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("rejects non-positive quantities", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormProductRepository(db)
		product := createTestProduct(t, repo, "Rice", 2500, 10)

		require.Error(t, repo.ReserveStock(ctx, product.ID, 0))
		require.Error(t, repo.ReserveStock(ctx, product.ID, -1))
	})

	t.Run("concurrent reservations never oversell", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormProductRepository(db)
		product := createTestProduct(t, repo, "Rice", 2500, 5)

		var wg sync.WaitGroup
		results := make(chan error, 10)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results <- repo.ReserveStock(ctx, product.ID, 1)
			}()
		}
		wg.Wait()
		close(results)

		succeeded := 0
		for err := range results {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, shared.ErrInsufficientStock)
			}
		}
		assert.Equal(t, 5, succeeded)

		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), found.StockQuantity)
	})
}

func TestGormProductRepository_RestoreStock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	product := createTestProduct(t, repo, "Rice", 2500, 2)

	require.NoError(t, repo.RestoreStock(ctx, product.ID, 3))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), found.StockQuantity)

	assert.ErrorIs(t, repo.RestoreStock(ctx, uuid.New(), 1), shared.ErrNotFound)
	assert.Error(t, repo.RestoreStock(ctx, product.ID, 0))
}

func TestGormProductRepository_SaveWithLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	product := createTestProduct(t, repo, "Rice", 2500, 10)

	t.Run("succeeds with matching version", func(t *testing.T) {
		expectedVersion := product.Version
		require.NoError(t, product.ChangePrice(2600))

		require.NoError(t, repo.SaveWithLock(ctx, product, expectedVersion))

		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2600), found.Price)
		assert.Equal(t, product.Version, found.Version)
	})

	t.Run("fails on stale version", func(t *testing.T) {
		err := repo.SaveWithLock(ctx, product, product.Version+5)
		require.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestGormProductRepository_FindAllAndCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	createTestProduct(t, repo, "Rice", 2500, 10)
	createTestProduct(t, repo, "Beans", 1200, 0)
	createTestProduct(t, repo, "Brown Rice", 3000, 4)

	t.Run("search by name", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "Rice"

		products, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, products, 2)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("in stock filter", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["in_stock"] = true

		products, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})

	t.Run("pagination", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.PageSize = 2

		page1, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, page1, 2)

		filter.Page = 2
		page2, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, page2, 1)
	})

	t.Run("order by price ascending", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.OrderBy = "price"
		filter.OrderDir = "asc"

		products, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, "Beans", products[0].Name)
	})
}

func TestGormProductRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	product := createTestProduct(t, repo, "Rice", 2500, 10)

	require.NoError(t, repo.Delete(ctx, product.ID))

	_, err := repo.FindByID(ctx, product.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, product.ID), shared.ErrNotFound)
}
