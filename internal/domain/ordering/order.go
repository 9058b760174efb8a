package ordering

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusAwaitingPayment  OrderStatus = "awaiting_payment"
	OrderStatusAwaitingDispatch OrderStatus = "awaiting_dispatch"
	OrderStatusDelivered        OrderStatus = "delivered"
	OrderStatusCancelled        OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusAwaitingPayment, OrderStatusAwaitingDispatch, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusAwaitingPayment:
		return target == OrderStatusAwaitingDispatch || target == OrderStatusCancelled
	case OrderStatusAwaitingDispatch:
		return target == OrderStatusDelivered || target == OrderStatusCancelled
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// HoldsStock reports whether an order in this status still holds its
// stock reservation. Only a transition out of a stock-holding status
// may restore stock, which keeps restoration exactly-once.
func (s OrderStatus) HoldsStock() bool {
	return s == OrderStatusAwaitingPayment || s == OrderStatusAwaitingDispatch
}

// PaymentMethod represents how an order was paid
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

// IsValid checks if the payment method is supported
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer:
		return true
	}
	return false
}

// OrderItem represents a line item in an order. The price is captured
// from the catalog at purchase time and never changes afterwards.
type OrderItem struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductName     string    `gorm:"type:varchar(200);not null"`
	Quantity        int64     `gorm:"not null"`
	PriceAtPurchase int64     `gorm:"not null"`
	Subtotal        int64     `gorm:"not null"`
	CreatedAt       time.Time
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderLine describes one requested line at order creation time
type OrderLine struct {
	ProductID       uuid.UUID
	ProductName     string
	Quantity        int64
	PriceAtPurchase int64
}

func newOrderItem(orderID uuid.UUID, line OrderLine) (*OrderItem, error) {
	if line.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product ID cannot be empty")
	}
	if line.Quantity < 1 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be at least 1")
	}
	if line.PriceAtPurchase < 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Price cannot be negative")
	}

	return &OrderItem{
		ID:              uuid.New(),
		OrderID:         orderID,
		ProductID:       line.ProductID,
		ProductName:     line.ProductName,
		Quantity:        line.Quantity,
		PriceAtPurchase: line.PriceAtPurchase,
		Subtotal:        line.Quantity * line.PriceAtPurchase,
		CreatedAt:       time.Now(),
	}, nil
}

// Order represents a customer order aggregate root. It owns the
// lifecycle from purchase through payment and dispatch, and carries
// an immutable snapshot of the purchased lines.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber   int64         `gorm:"not null;uniqueIndex"`
	ClientID      uuid.UUID     `gorm:"type:uuid;not null;index"`
	SellerID      *uuid.UUID    `gorm:"type:uuid;index"`
	CashierID     *uuid.UUID    `gorm:"type:uuid"`
	DispatcherID  *uuid.UUID    `gorm:"type:uuid"`
	Items         []OrderItem   `gorm:"foreignKey:OrderID"`
	TotalAmount   int64         `gorm:"not null"`
	Status        OrderStatus   `gorm:"type:varchar(20);not null;default:'awaiting_payment'"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(20)"`
	PaidAt        *time.Time
	DispatchedAt  *time.Time
	CancelledAt   *time.Time
	CancelReason  string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order with its full set of lines. Lines are
// immutable afterwards: there is no way to add, remove or reprice an
// item on a persisted order.
func NewOrder(orderNumber int64, clientID uuid.UUID, sellerID *uuid.UUID, lines []OrderLine) (*Order, error) {
	if orderNumber < 1 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Order number must be positive")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Client ID cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Order must contain at least one item")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		ClientID:          clientID,
		SellerID:          sellerID,
		Items:             make([]OrderItem, 0, len(lines)),
		Status:            OrderStatusAwaitingPayment,
	}

	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		if seen[line.ProductID] {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Duplicate product in order lines")
		}
		seen[line.ProductID] = true

		item, err := newOrderItem(order.ID, line)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, *item)
		order.TotalAmount += item.Subtotal
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// ConfirmPayment records a payment and moves the order to awaiting dispatch
func (o *Order) ConfirmPayment(cashierID uuid.UUID, method PaymentMethod) error {
	if !o.Status.CanTransitionTo(OrderStatusAwaitingDispatch) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot confirm payment for order in %s status", o.Status))
	}
	if cashierID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Cashier ID cannot be empty")
	}
	if !method.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unsupported payment method %q", method))
	}

	now := time.Now()
	o.Status = OrderStatusAwaitingDispatch
	o.CashierID = &cashierID
	o.PaymentMethod = method
	o.PaidAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderPaymentConfirmedEvent(o))

	return nil
}

// Dispatch marks the order as delivered to the client
func (o *Order) Dispatch(dispatcherID uuid.UUID) error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot dispatch order in %s status", o.Status))
	}
	if dispatcherID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Dispatcher ID cannot be empty")
	}

	now := time.Now()
	o.Status = OrderStatusDelivered
	o.DispatcherID = &dispatcherID
	o.DispatchedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderDispatchedEvent(o))

	return nil
}

// Cancel cancels the order. Stock restoration is coordinated by the
// application service inside the same transaction; the status guard
// here is what makes it happen at most once.
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCancelledEvent(o))

	return nil
}

// IsOwnedBy reports whether the order belongs to the given client
func (o *Order) IsOwnedBy(clientID uuid.UUID) bool {
	return o.ClientID == clientID
}

// WasCreatedBy reports whether the given seller placed this order
func (o *Order) WasCreatedBy(sellerID uuid.UUID) bool {
	return o.SellerID != nil && *o.SellerID == sellerID
}

// IsTerminal reports whether the order reached a terminal status
func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}
