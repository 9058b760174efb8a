package ordering

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/ordering"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderService handles order business operations. Creation, cancellation
// and removal run inside a TransactionScope so stock movements and order
// rows always change together.
type OrderService struct {
	scope          TransactionScope
	orderRepo      ordering.OrderRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(scope TransactionScope, orderRepo ordering.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		scope:     scope,
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create places an order for the acting client
func (s *OrderService) Create(ctx context.Context, actor identity.Actor, req CreateOrderRequest) (*OrderResponse, error) {
	if !actor.Allowed(identity.OpCreateOrder) {
		return nil, shared.ErrForbidden
	}

	var sellerID *uuid.UUID
	if actor.HasRole(identity.RoleSeller) && !actor.HasRole(identity.RoleClient) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Sellers must place orders on behalf of a client")
	}
	return s.createOrder(ctx, actor.ID, sellerID, req.Lines)
}

// CreateForClient places an order on behalf of a client identified by
// phone number. The client account is created on the fly when the phone
// is not yet registered.
func (s *OrderService) CreateForClient(ctx context.Context, actor identity.Actor, req CreateOrderForClientRequest) (*OrderResponse, error) {
	if !actor.Allowed(identity.OpCreateOrderOnBehalf) {
		return nil, shared.ErrForbidden
	}

	var clientID uuid.UUID
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		client, err := repos.UserRepo().FindByPhone(ctx, req.ClientPhone)
		if errors.Is(err, shared.ErrNotFound) {
			client, err = identity.NewWalkInClient(req.ClientName, req.ClientPhone)
			if err != nil {
				return err
			}
			if err := repos.UserRepo().Save(ctx, client); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		clientID = client.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	sellerID := actor.ID
	return s.createOrder(ctx, clientID, &sellerID, req.Lines)
}

// createOrder reserves stock for every line, freezes prices and
// persists the order, all inside one transaction. Any failure rolls the
// whole purchase back: no order row and no stock movement survive.
func (s *OrderService) createOrder(ctx context.Context, clientID uuid.UUID, sellerID *uuid.UUID, lines []OrderLineInput) (*OrderResponse, error) {
	if len(lines) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Order must contain at least one item")
	}

	var (
		response OrderResponse
		events   []shared.DomainEvent
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		ids := make([]uuid.UUID, 0, len(lines))
		for _, line := range lines {
			ids = append(ids, line.ProductID)
		}

		products, err := repos.ProductRepo().FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*catalog.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}

		orderLines := make([]ordering.OrderLine, 0, len(lines))
		for _, line := range lines {
			product, ok := byID[line.ProductID]
			if !ok {
				return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Product %s not found", line.ProductID))
			}

			if err := repos.ProductRepo().ReserveStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}

			orderLines = append(orderLines, ordering.OrderLine{
				ProductID:       product.ID,
				ProductName:     product.Name,
				Quantity:        line.Quantity,
				PriceAtPurchase: product.Price,
			})
		}

		orderNumber, err := repos.OrderRepo().NextOrderNumber(ctx)
		if err != nil {
			return err
		}

		order, err := ordering.NewOrder(orderNumber, clientID, sellerID, orderLines)
		if err != nil {
			return err
		}

		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}

		events = order.GetDomainEvents()
		order.ClearDomainEvents()
		response = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)

	s.logger.Info("Order created",
		zap.Int64("order_number", response.OrderNumber),
		zap.String("client_id", clientID.String()),
		zap.Int64("total_amount", response.TotalAmount))

	return &response, nil
}

// GetByID retrieves an order. Clients may only read their own orders.
func (s *OrderService) GetByID(ctx context.Context, actor identity.Actor, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !s.canView(actor, order) {
		return nil, shared.ErrForbidden
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders with filtering and pagination. Staff only.
func (s *OrderService) List(ctx context.Context, actor identity.Actor, filter OrderListFilter) (*shared.Paginated[OrderListItemResponse], error) {
	if !actor.Allowed(identity.OpListAllOrders) {
		return nil, shared.ErrForbidden
	}

	domainFilter := buildDomainFilter(filter)

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToOrderListItemResponses(orders), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// ListMine retrieves the acting client's own orders
func (s *OrderService) ListMine(ctx context.Context, actor identity.Actor, filter OrderListFilter) (*shared.Paginated[OrderListItemResponse], error) {
	domainFilter := buildDomainFilter(filter)

	orders, err := s.orderRepo.FindByClientID(ctx, actor.ID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.CountByClientID(ctx, actor.ID, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToOrderListItemResponses(orders), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// ConfirmPayment records a payment on an awaiting order
func (s *OrderService) ConfirmPayment(ctx context.Context, actor identity.Actor, orderID uuid.UUID, req ConfirmPaymentRequest) (*OrderResponse, error) {
	if !actor.Allowed(identity.OpConfirmPayment) {
		return nil, shared.ErrForbidden
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	expectedVersion := order.Version
	if err := order.ConfirmPayment(actor.ID, ordering.PaymentMethod(req.PaymentMethod)); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		return nil, err
	}

	s.publishAndClear(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// Dispatch marks an order as handed to the client
func (s *OrderService) Dispatch(ctx context.Context, actor identity.Actor, orderID uuid.UUID) (*OrderResponse, error) {
	if !actor.Allowed(identity.OpDispatchOrder) {
		return nil, shared.ErrForbidden
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	expectedVersion := order.Version
	if err := order.Dispatch(actor.ID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		return nil, err
	}

	s.publishAndClear(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// Cancel cancels an order and returns its reserved stock. The status
// transition and the stock restoration commit in the same transaction,
// and the transition guard keeps the restoration from ever running
// twice for one order.
func (s *OrderService) Cancel(ctx context.Context, actor identity.Actor, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	var (
		response OrderResponse
		events   []shared.DomainEvent
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		if !s.canCancel(actor, order) {
			return shared.ErrForbidden
		}

		expectedVersion := order.Version
		if err := order.Cancel(req.Reason); err != nil {
			return err
		}

		for _, item := range order.Items {
			if err := repos.ProductRepo().RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := repos.OrderRepo().SaveWithLock(ctx, order, expectedVersion); err != nil {
			return err
		}

		events = order.GetDomainEvents()
		order.ClearDomainEvents()
		response = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)

	s.logger.Info("Order cancelled",
		zap.Int64("order_number", response.OrderNumber),
		zap.String("actor_id", actor.ID.String()))

	return &response, nil
}

// Remove is the administrative cancellation of an order. Admin only.
// The order row is kept so the order history stays intact; removal is
// a transition to cancelled, never an erasure. An order that still
// holds stock gets its reservation back exactly once, and terminal
// orders are rejected with an invalid transition.
func (s *OrderService) Remove(ctx context.Context, actor identity.Actor, orderID uuid.UUID) error {
	if !actor.Allowed(identity.OpRemoveOrder) {
		return shared.ErrForbidden
	}

	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		restoresStock := order.Status.HoldsStock()
		expectedVersion := order.Version
		if err := order.Cancel("removed by administrator"); err != nil {
			return err
		}

		if restoresStock {
			for _, item := range order.Items {
				if err := repos.ProductRepo().RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}

		if err := repos.OrderRepo().SaveWithLock(ctx, order, expectedVersion); err != nil {
			return err
		}

		events = order.GetDomainEvents()
		order.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return err
	}

	s.publishEvents(ctx, events)

	s.logger.Info("Order removed",
		zap.String("order_id", orderID.String()),
		zap.String("actor_id", actor.ID.String()))

	return nil
}

func (s *OrderService) canView(actor identity.Actor, order *ordering.Order) bool {
	if actor.IsAdmin() || actor.Allowed(identity.OpListAllOrders) {
		return true
	}
	return order.IsOwnedBy(actor.ID)
}

func (s *OrderService) canCancel(actor identity.Actor, order *ordering.Order) bool {
	if actor.IsAdmin() {
		return true
	}
	// Sellers may only cancel orders they themselves placed
	return actor.Allowed(identity.OpCancelOrder) && order.WasCreatedBy(actor.ID)
}

func (s *OrderService) publishAndClear(ctx context.Context, order *ordering.Order) {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	s.publishEvents(ctx, events)
}

func (s *OrderService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}

func buildDomainFilter(filter OrderListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = filter.Status.String()
	}
	if filter.ClientID != nil {
		domainFilter.Filters["client_id"] = *filter.ClientID
	}
	return domainFilter
}
