package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

func TestGormUserRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user, err := identity.NewUser("cashier.one", "secure-pass-123", identity.RoleCashier, identity.RoleSeller)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, user))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "cashier.one", found.Username)
	assert.ElementsMatch(t, []identity.Role{identity.RoleCashier, identity.RoleSeller}, found.Roles)
	assert.True(t, found.VerifyPassword("secure-pass-123"))

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUserRepository_FindByUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user, err := identity.NewUser("seller.one", "secure-pass-123", identity.RoleSeller)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, user))

	found, err := repo.FindByUsername(ctx, "seller.one")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, []identity.Role{identity.RoleSeller}, found.Roles)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUserRepository_FindByPhone(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	client, err := identity.NewWalkInClient("Walk In", "+15550001111")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, client))

	found, err := repo.FindByPhone(ctx, "+15550001111")
	require.NoError(t, err)
	assert.Equal(t, client.ID, found.ID)
	assert.Equal(t, []identity.Role{identity.RoleClient}, found.Roles)
	assert.Empty(t, found.Username)

	_, err = repo.FindByPhone(ctx, "+15559999999")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUserRepository_RoleSync(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user, err := identity.NewUser("clerk", "secure-pass-123", identity.RoleCashier)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, user))

	require.NoError(t, user.AssignRole(identity.RoleDispatcher))
	require.NoError(t, repo.Save(ctx, user))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []identity.Role{identity.RoleCashier, identity.RoleDispatcher}, found.Roles)

	require.NoError(t, found.RemoveRole(identity.RoleCashier))
	require.NoError(t, repo.Save(ctx, found))

	found, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []identity.Role{identity.RoleDispatcher}, found.Roles)

	var rows int64
	require.NoError(t, db.Model(&identity.UserRole{}).Where("user_id = ?", user.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows, "stale role rows are removed")
}

func TestGormUserRepository_FindAllAndCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	for _, username := range []string{"alpha", "bravo"} {
		user, err := identity.NewUser(username, "secure-pass-123", identity.RoleClient)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, user))
	}
	deactivated, err := identity.NewUser("charlie", "secure-pass-123", identity.RoleClient)
	require.NoError(t, err)
	deactivated.Deactivate()
	require.NoError(t, repo.Save(ctx, deactivated))

	t.Run("search by username", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "alph"

		users, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "alpha", users[0].Username)
	})

	t.Run("status filter", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = string(identity.UserStatusActive)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}

func TestGormUserRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user, err := identity.NewUser("clerk", "secure-pass-123", identity.RoleCashier)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, user))

	require.NoError(t, repo.Delete(ctx, user.ID))

	_, err = repo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var rows int64
	require.NoError(t, db.Model(&identity.UserRole{}).Where("user_id = ?", user.ID).Count(&rows).Error)
	assert.Equal(t, int64(0), rows)

	assert.ErrorIs(t, repo.Delete(ctx, user.ID), shared.ErrNotFound)
}
