package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// Each pooled connection to :memory: would get its own database,
	// so pin the pool to a single connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	statements := []string{
		`CREATE TABLE products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			price INTEGER NOT NULL DEFAULT 0,
			stock_quantity INTEGER NOT NULL DEFAULT 0,
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE orders (
			id TEXT PRIMARY KEY,
			order_number INTEGER NOT NULL UNIQUE,
			client_id TEXT NOT NULL,
			seller_id TEXT,
			cashier_id TEXT,
			dispatcher_id TEXT,
			total_amount INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'awaiting_payment',
			payment_method TEXT,
			paid_at DATETIME,
			dispatched_at DATETIME,
			cancelled_at DATETIME,
			cancel_reason TEXT,
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE order_items (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			product_name TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			price_at_purchase INTEGER NOT NULL,
			subtotal INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			username TEXT,
			display_name TEXT,
			phone TEXT,
			password_hash TEXT,
			status TEXT NOT NULL DEFAULT 'active',
			last_login_at DATETIME,
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE UNIQUE INDEX idx_users_username ON users(username) WHERE username != ''`,
		`CREATE TABLE user_roles (
			user_id TEXT NOT NULL,
			role TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			PRIMARY KEY (user_id, role)
		)`,
	}

	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}
