package identity

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
)

// UserRepository defines the persistence interface for users
type UserRepository interface {
	shared.Repository[User]

	// FindByUsername returns the user with the given login name
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByPhone returns the user registered under the given phone number
	FindByPhone(ctx context.Context, phone string) (*User, error)
}
