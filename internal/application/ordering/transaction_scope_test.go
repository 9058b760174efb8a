package ordering

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoOpTransactionScope(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	productRepo := newFakeProductRepo()
	userRepo := newFakeUserRepo()
	scope := NewNoOpTransactionScope(orderRepo, productRepo, userRepo)

	t.Run("hands the wrapped repositories to the function", func(t *testing.T) {
		err := scope.Execute(context.Background(), func(repos TransactionalRepositories) error {
			assert.Same(t, orderRepo, repos.OrderRepo())
			assert.Same(t, productRepo, repos.ProductRepo())
			assert.Same(t, userRepo, repos.UserRepo())
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("propagates the function's error", func(t *testing.T) {
		boom := errors.New("boom")
		err := scope.Execute(context.Background(), func(TransactionalRepositories) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
	})
}
