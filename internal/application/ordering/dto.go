package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/ordering"
)

// OrderLineInput represents one requested line in a create order request
type OrderLineInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest represents a request to place an order
type CreateOrderRequest struct {
	Lines []OrderLineInput `json:"lines" binding:"required,min=1,dive"`
}

// CreateOrderForClientRequest represents a seller placing an order on
// behalf of a client identified by phone number
type CreateOrderForClientRequest struct {
	ClientPhone string           `json:"client_phone" binding:"required,min=1,max=50"`
	ClientName  string           `json:"client_name" binding:"max=200"`
	Lines       []OrderLineInput `json:"lines" binding:"required,min=1,dive"`
}

// ConfirmPaymentRequest represents a cashier confirming payment
type ConfirmPaymentRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,oneof=cash card transfer"`
}

// CancelOrderRequest represents a request to cancel an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=200"`
}

// OrderListFilter represents filtering options for listing orders
type OrderListFilter struct {
	Page     int                   `form:"page"`
	PageSize int                   `form:"page_size"`
	Status   *ordering.OrderStatus `form:"status"`
	ClientID *uuid.UUID            `form:"client_id"`
}

// OrderItemResponse represents an order line in responses
type OrderItemResponse struct {
	ID              uuid.UUID `json:"id"`
	ProductID       uuid.UUID `json:"product_id"`
	ProductName     string    `json:"product_name"`
	Quantity        int64     `json:"quantity"`
	PriceAtPurchase int64     `json:"price_at_purchase"`
	Subtotal        int64     `json:"subtotal"`
}

// OrderResponse represents a full order in responses
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   int64               `json:"order_number"`
	ClientID      uuid.UUID           `json:"client_id"`
	SellerID      *uuid.UUID          `json:"seller_id,omitempty"`
	CashierID     *uuid.UUID          `json:"cashier_id,omitempty"`
	DispatcherID  *uuid.UUID          `json:"dispatcher_id,omitempty"`
	Items         []OrderItemResponse `json:"items"`
	TotalAmount   int64               `json:"total_amount"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method,omitempty"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	DispatchedAt  *time.Time          `json:"dispatched_at,omitempty"`
	CancelledAt   *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason  string              `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// OrderListItemResponse represents an order in list responses
type OrderListItemResponse struct {
	ID          uuid.UUID `json:"id"`
	OrderNumber int64     `json:"order_number"`
	ClientID    uuid.UUID `json:"client_id"`
	TotalAmount int64     `json:"total_amount"`
	Status      string    `json:"status"`
	ItemCount   int       `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToOrderResponse converts an order aggregate to a response DTO
func ToOrderResponse(order *ordering.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
			Subtotal:        item.Subtotal,
		})
	}

	return OrderResponse{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		ClientID:      order.ClientID,
		SellerID:      order.SellerID,
		CashierID:     order.CashierID,
		DispatcherID:  order.DispatcherID,
		Items:         items,
		TotalAmount:   order.TotalAmount,
		Status:        order.Status.String(),
		PaymentMethod: string(order.PaymentMethod),
		PaidAt:        order.PaidAt,
		DispatchedAt:  order.DispatchedAt,
		CancelledAt:   order.CancelledAt,
		CancelReason:  order.CancelReason,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

// ToOrderListItemResponses converts orders to list item DTOs
func ToOrderListItemResponses(orders []ordering.Order) []OrderListItemResponse {
	responses := make([]OrderListItemResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, OrderListItemResponse{
			ID:          orders[i].ID,
			OrderNumber: orders[i].OrderNumber,
			ClientID:    orders[i].ClientID,
			TotalAmount: orders[i].TotalAmount,
			Status:      orders[i].Status.String(),
			ItemCount:   len(orders[i].Items),
			CreatedAt:   orders[i].CreatedAt,
		})
	}
	return responses
}
