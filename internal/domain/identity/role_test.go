package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func actorWith(roles ...Role) Actor {
	return Actor{ID: uuid.New(), Roles: roles}
}

func TestRole_IsValid(t *testing.T) {
	for _, role := range []Role{RoleClient, RoleSeller, RoleCashier, RoleDispatcher, RoleAdmin} {
		assert.True(t, role.IsValid(), role.String())
	}
	assert.False(t, Role("manager").IsValid())
	assert.False(t, Role("").IsValid())
}

func TestActor_Allowed(t *testing.T) {
	tests := []struct {
		name    string
		actor   Actor
		op      Operation
		allowed bool
	}{
		{"client creates own order", actorWith(RoleClient), OpCreateOrder, true},
		{"client cannot create on behalf", actorWith(RoleClient), OpCreateOrderOnBehalf, false},
		{"client cannot confirm payment", actorWith(RoleClient), OpConfirmPayment, false},
		{"client cannot dispatch", actorWith(RoleClient), OpDispatchOrder, false},
		{"client cannot list all orders", actorWith(RoleClient), OpListAllOrders, false},
		{"seller creates on behalf", actorWith(RoleSeller), OpCreateOrderOnBehalf, true},
		{"seller cancels", actorWith(RoleSeller), OpCancelOrder, true},
		{"seller cannot confirm payment", actorWith(RoleSeller), OpConfirmPayment, false},
		{"seller cannot remove", actorWith(RoleSeller), OpRemoveOrder, false},
		{"cashier confirms payment", actorWith(RoleCashier), OpConfirmPayment, true},
		{"cashier cannot dispatch", actorWith(RoleCashier), OpDispatchOrder, false},
		{"dispatcher dispatches", actorWith(RoleDispatcher), OpDispatchOrder, true},
		{"dispatcher cannot confirm payment", actorWith(RoleDispatcher), OpConfirmPayment, false},
		{"dispatcher cannot cancel", actorWith(RoleDispatcher), OpCancelOrder, false},
		{"admin confirms payment", actorWith(RoleAdmin), OpConfirmPayment, true},
		{"admin dispatches", actorWith(RoleAdmin), OpDispatchOrder, true},
		{"admin cancels", actorWith(RoleAdmin), OpCancelOrder, true},
		{"admin removes", actorWith(RoleAdmin), OpRemoveOrder, true},
		{"admin manages products", actorWith(RoleAdmin), OpManageProducts, true},
		{"admin manages users", actorWith(RoleAdmin), OpManageUsers, true},
		{"cashier cannot manage users", actorWith(RoleCashier), OpManageUsers, false},
		{"no roles allows nothing", actorWith(), OpCreateOrder, false},
		{"multiple roles combine", actorWith(RoleCashier, RoleDispatcher), OpDispatchOrder, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.actor.Allowed(tt.op))
		})
	}
}

func TestActor_HasRole(t *testing.T) {
	actor := actorWith(RoleSeller, RoleCashier)
	assert.True(t, actor.HasRole(RoleSeller))
	assert.True(t, actor.HasRole(RoleCashier))
	assert.False(t, actor.HasRole(RoleAdmin))
	assert.False(t, actor.IsAdmin())
	assert.True(t, actorWith(RoleAdmin).IsAdmin())
}
