package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

func newTestProductForSQL() *catalog.Product {
	product, err := catalog.NewProduct("Rice 5kg", "", 1200, 10)
	if err != nil {
		panic(err)
	}
	return product
}

// newMockProductRepository verifies the exact SQL the repository emits
// against a mocked connection, since the stock arithmetic must stay in
// the database rather than in Go.
func newMockProductRepository(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormProductRepository(gormDB), mock, mockDB
}

func TestGormProductRepository_ReserveStock_SQL(t *testing.T) {
	t.Run("decrements in a single conditional update", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectExec(`UPDATE "products" SET "stock_quantity"=stock_quantity - \$1.* WHERE id = \$3 AND stock_quantity >= \$4`).
			WithArgs(int64(3), sqlmock.AnyArg(), productID, int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.ReserveStock(context.Background(), productID, 3)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports insufficient stock when the row exists but the guard fails", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectExec(`UPDATE "products" SET "stock_quantity"=stock_quantity - \$1`).
			WithArgs(int64(10), sqlmock.AnyArg(), productID, int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE id = \$1`).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := repo.ReserveStock(context.Background(), productID, 10)

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports not found when no row matches", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectExec(`UPDATE "products" SET "stock_quantity"=stock_quantity - \$1`).
			WithArgs(int64(1), sqlmock.AnyArg(), productID, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE id = \$1`).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		err := repo.ReserveStock(context.Background(), productID, 1)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_RestoreStock_SQL(t *testing.T) {
	repo, mock, mockDB := newMockProductRepository(t)
	defer mockDB.Close()

	productID := uuid.New()

	mock.ExpectExec(`UPDATE "products" SET "stock_quantity"=stock_quantity \+ \$1`).
		WithArgs(int64(4), sqlmock.AnyArg(), productID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RestoreStock(context.Background(), productID, 4)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductRepository_SaveWithLock_SQL(t *testing.T) {
	t.Run("guards the update with the expected version", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		product := newTestProductForSQL()

		mock.ExpectExec(`UPDATE "products" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), product, 1)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version yields a concurrency conflict", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		product := newTestProductForSQL()

		mock.ExpectExec(`UPDATE "products" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), product, 1)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
