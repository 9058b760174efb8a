package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/application/ordering"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order HTTP requests
type OrderHandler struct {
	BaseHandler
	orderService *ordering.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *ordering.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create godoc
// @ID           createOrder
// @Summary      Place an order for the authenticated client
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body ordering.CreateOrderRequest true "Order lines"
// @Success      201 {object} dto.Response{data=ordering.OrderResponse}
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ordering.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.orderService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// CreateForClient godoc
// @ID           createOrderForClient
// @Summary      Place an order on behalf of a client
// @Description  Sellers place orders for walk-in clients identified by phone number. An account is created for the client when none exists.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body ordering.CreateOrderForClientRequest true "Client phone and order lines"
// @Success      201 {object} dto.Response{data=ordering.OrderResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /orders/on-behalf [post]
func (h *OrderHandler) CreateForClient(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ordering.CreateOrderForClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.orderService.CreateForClient(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// List godoc
// @ID           listOrders
// @Summary      List all orders
// @Tags         orders
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        status query string false "Status filter"
// @Param        client_id query string false "Client filter"
// @Success      200 {object} dto.Response{data=[]ordering.OrderListItemResponse}
// @Failure      403 {object} dto.Response
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter ordering.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.orderService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, paginationMeta(result))
}

// ListMine godoc
// @ID           listMyOrders
// @Summary      List the authenticated client's own orders
// @Tags         orders
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        status query string false "Status filter"
// @Success      200 {object} dto.Response{data=[]ordering.OrderListItemResponse}
// @Security     BearerAuth
// @Router       /orders/mine [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter ordering.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.orderService.ListMine(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, paginationMeta(result))
}

// GetByID godoc
// @ID           getOrder
// @Summary      Get an order by ID
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=ordering.OrderResponse}
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.orderService.GetByID(c.Request.Context(), actor, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ConfirmPayment godoc
// @ID           confirmOrderPayment
// @Summary      Confirm payment for an order
// @Description  Moves an order awaiting payment to awaiting dispatch and records the payment method.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body ordering.ConfirmPaymentRequest true "Payment method"
// @Success      200 {object} dto.Response{data=ordering.OrderResponse}
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /orders/{id}/payment [post]
func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req ordering.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.orderService.ConfirmPayment(c.Request.Context(), actor, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Dispatch godoc
// @ID           dispatchOrder
// @Summary      Mark a paid order as delivered
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=ordering.OrderResponse}
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /orders/{id}/dispatch [post]
func (h *OrderHandler) Dispatch(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.orderService.Dispatch(c.Request.Context(), actor, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel godoc
// @ID           cancelOrder
// @Summary      Cancel an order
// @Description  Cancels an order that has not been delivered and returns its reserved stock.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body ordering.CancelOrderRequest false "Cancellation reason"
// @Success      200 {object} dto.Response{data=ordering.OrderResponse}
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	// The cancellation reason is optional, so an empty body is accepted.
	var req ordering.CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, "Invalid request body")
			return
		}
	}

	result, err := h.orderService.Cancel(c.Request.Context(), actor, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Remove godoc
// @ID           removeOrder
// @Summary      Remove an order
// @Description  Administratively cancels an order. The order record is kept with status cancelled; any held stock is returned exactly once. Delivered and already-cancelled orders are rejected.
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      204
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Remove(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.Remove(c.Request.Context(), actor, orderID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
