package identity

import "github.com/google/uuid"

// Role represents a named set of capabilities a user holds
type Role string

const (
	RoleClient     Role = "client"
	RoleSeller     Role = "seller"
	RoleCashier    Role = "cashier"
	RoleDispatcher Role = "dispatcher"
	RoleAdmin      Role = "admin"
)

// IsValid checks if the role is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleSeller, RoleCashier, RoleDispatcher, RoleAdmin:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Operation identifies a role-gated action on the system
type Operation string

const (
	OpCreateOrder         Operation = "order:create"
	OpCreateOrderOnBehalf Operation = "order:create_on_behalf"
	OpConfirmPayment      Operation = "order:confirm_payment"
	OpDispatchOrder       Operation = "order:dispatch"
	OpCancelOrder         Operation = "order:cancel"
	OpRemoveOrder         Operation = "order:remove"
	OpListAllOrders       Operation = "order:list_all"
	OpManageProducts      Operation = "product:manage"
	OpManageUsers         Operation = "user:manage"
)

// Actor is the authenticated principal performing an operation. It is
// a plain value so authorization stays a pure function over roles;
// ownership checks (a client reading their own order, a seller
// cancelling an order they placed) belong to the application services.
type Actor struct {
	ID    uuid.UUID
	Roles []Role
}

// HasRole reports whether the actor holds the given role
func (a Actor) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool {
	return a.HasRole(RoleAdmin)
}

// Allowed reports whether the actor's roles permit the operation.
// Admin is permitted everything.
func (a Actor) Allowed(op Operation) bool {
	if a.IsAdmin() {
		return true
	}

	switch op {
	case OpCreateOrder:
		return a.HasRole(RoleClient) || a.HasRole(RoleSeller)
	case OpCreateOrderOnBehalf:
		return a.HasRole(RoleSeller)
	case OpConfirmPayment:
		return a.HasRole(RoleCashier)
	case OpDispatchOrder:
		return a.HasRole(RoleDispatcher)
	case OpCancelOrder:
		// Sellers may cancel only orders they placed; the ownership
		// half of that rule is checked by the order service.
		return a.HasRole(RoleSeller)
	case OpRemoveOrder, OpManageProducts, OpManageUsers:
		return false // admin only
	case OpListAllOrders:
		return a.HasRole(RoleSeller) || a.HasRole(RoleCashier) || a.HasRole(RoleDispatcher)
	}
	return false
}
