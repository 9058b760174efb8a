package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainidentity "github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*domainidentity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domainidentity.User)}
}

func copyUser(u *domainidentity.User) *domainidentity.User {
	clone := *u
	clone.Roles = append([]domainidentity.Role(nil), u.Roles...)
	clone.ClearDomainEvents()
	return &clone
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domainidentity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *fakeUserRepo) FindAll(_ context.Context, _ shared.Filter) ([]domainidentity.User, error) {
	out := make([]domainidentity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *copyUser(u))
	}
	return out, nil
}

func (r *fakeUserRepo) Save(_ context.Context, u *domainidentity.User) error {
	r.users[u.ID] = copyUser(u)
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*domainidentity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*domainidentity.User, error) {
	for _, u := range r.users {
		if u.Phone == phone {
			return copyUser(u), nil
		}
	}
	return nil, shared.ErrNotFound
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "unit-test-access-secret",
		RefreshSecret:          "unit-test-refresh-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "storefront-test",
	})
}

func authServiceFixture(t *testing.T) (*AuthService, *fakeUserRepo, *domainidentity.User) {
	t.Helper()

	repo := newFakeUserRepo()
	user, err := domainidentity.NewUser("cashier.one", "correct-horse-1", domainidentity.RoleCashier)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), user))

	svc := NewAuthService(repo, testJWTService(), auth.NewInMemoryTokenBlacklist(), zap.NewNop())
	return svc, repo, user
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials return a token pair", func(t *testing.T) {
		svc, repo, user := authServiceFixture(t)

		resp, err := svc.Login(ctx, LoginRequest{Username: "cashier.one", Password: "correct-horse-1"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, user.ID, resp.User.ID)
		assert.Contains(t, resp.User.Roles, "cashier")

		saved, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.NotNil(t, saved.LastLoginAt)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		svc, _, _ := authServiceFixture(t)

		_, err := svc.Login(ctx, LoginRequest{Username: "cashier.one", Password: "wrong-password"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
	})

	t.Run("unknown username gets the same error as wrong password", func(t *testing.T) {
		svc, _, _ := authServiceFixture(t)

		_, errUnknown := svc.Login(ctx, LoginRequest{Username: "nobody", Password: "whatever-123"})
		_, errWrongPw := svc.Login(ctx, LoginRequest{Username: "cashier.one", Password: "whatever-123"})
		require.Error(t, errUnknown)
		require.Error(t, errWrongPw)
		assert.Equal(t, errWrongPw.Error(), errUnknown.Error())
	})

	t.Run("deactivated account cannot log in", func(t *testing.T) {
		svc, repo, user := authServiceFixture(t)
		stored := repo.users[user.ID]
		stored.Deactivate()

		_, err := svc.Login(ctx, LoginRequest{Username: "cashier.one", Password: "correct-horse-1"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("valid refresh token yields a new pair", func(t *testing.T) {
		svc, _, _ := authServiceFixture(t)

		login, err := svc.Login(ctx, LoginRequest{Username: "cashier.one", Password: "correct-horse-1"})
		require.NoError(t, err)

		refreshed, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.NotEmpty(t, refreshed.RefreshToken)
	})

	t.Run("refresh token is single use", func(t *testing.T) {
		svc, _, _ := authServiceFixture(t)

		login, err := svc.Login(ctx, LoginRequest{Username: "cashier.one", Password: "correct-horse-1"})
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
	})

	t.Run("access token is not accepted as refresh token", func(t *testing.T) {
		svc, _, _ := authServiceFixture(t)

		login, err := svc.Login(ctx, LoginRequest{Username: "cashier.one", Password: "correct-horse-1"})
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: login.AccessToken})
		require.Error(t, err)
	})

	t.Run("refresh fails after the account is removed", func(t *testing.T) {
		svc, repo, user := authServiceFixture(t)

		login, err := svc.Login(ctx, LoginRequest{Username: "cashier.one", Password: "correct-horse-1"})
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, user.ID))

		_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
		require.Error(t, err)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := authServiceFixture(t)

	login, err := svc.Login(ctx, LoginRequest{Username: "cashier.one", Password: "correct-horse-1"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, login.AccessToken))

	// Logging out an already invalid token is a no-op
	require.NoError(t, svc.Logout(ctx, "not-a-token"))
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("correct old password changes the credential", func(t *testing.T) {
		svc, _, user := authServiceFixture(t)

		err := svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{
			OldPassword: "correct-horse-1",
			NewPassword: "brand-new-pass-2",
		})
		require.NoError(t, err)

		_, err = svc.Login(ctx, LoginRequest{Username: "cashier.one", Password: "brand-new-pass-2"})
		require.NoError(t, err)

		_, err = svc.Login(ctx, LoginRequest{Username: "cashier.one", Password: "correct-horse-1"})
		require.Error(t, err)
	})

	t.Run("wrong old password is rejected", func(t *testing.T) {
		svc, _, user := authServiceFixture(t)

		err := svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{
			OldPassword: "not-the-password",
			NewPassword: "brand-new-pass-2",
		})
		require.Error(t, err)
	})
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	svc, _, user := authServiceFixture(t)

	resp, err := svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.ID)
	assert.Equal(t, "cashier.one", resp.Username)

	_, err = svc.Me(ctx, uuid.New())
	require.ErrorIs(t, err, shared.ErrNotFound)
}
