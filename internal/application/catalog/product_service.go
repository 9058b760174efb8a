package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles catalog business operations. Reads are open to
// every authenticated user; mutations are admin-gated.
type ProductService struct {
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create adds a new product to the catalog
func (s *ProductService) Create(ctx context.Context, actor identity.Actor, req CreateProductRequest) (*ProductResponse, error) {
	if !actor.Allowed(identity.OpManageProducts) {
		return nil, shared.ErrForbidden
	}

	product, err := catalog.NewProduct(req.Name, req.Description, req.Price, req.StockQuantity)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishAndClear(ctx, product)

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name))

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToProductResponses(products), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// Update changes a product's name and description
func (s *ProductService) Update(ctx context.Context, actor identity.Actor, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	if !actor.Allowed(identity.OpManageProducts) {
		return nil, shared.ErrForbidden
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	expectedVersion := product.Version
	if err := product.Update(req.Name, req.Description); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product, expectedVersion); err != nil {
		return nil, err
	}

	s.publishAndClear(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// ChangePrice sets a new selling price. Existing orders keep the price
// they were purchased at.
func (s *ProductService) ChangePrice(ctx context.Context, actor identity.Actor, productID uuid.UUID, req ChangePriceRequest) (*ProductResponse, error) {
	if !actor.Allowed(identity.OpManageProducts) {
		return nil, shared.ErrForbidden
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	expectedVersion := product.Version
	if err := product.ChangePrice(req.Price); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product, expectedVersion); err != nil {
		return nil, err
	}

	s.publishAndClear(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// AdjustStock applies a manual stock correction
func (s *ProductService) AdjustStock(ctx context.Context, actor identity.Actor, productID uuid.UUID, req AdjustStockRequest) (*ProductResponse, error) {
	if !actor.Allowed(identity.OpManageProducts) {
		return nil, shared.ErrForbidden
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	expectedVersion := product.Version
	if err := product.AdjustStock(req.Delta); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product, expectedVersion); err != nil {
		return nil, err
	}

	s.publishAndClear(ctx, product)

	s.logger.Info("Stock adjusted",
		zap.String("product_id", product.ID.String()),
		zap.Int64("delta", req.Delta),
		zap.Int64("stock_quantity", product.StockQuantity))

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product from the catalog
func (s *ProductService) Delete(ctx context.Context, actor identity.Actor, productID uuid.UUID) error {
	if !actor.Allowed(identity.OpManageProducts) {
		return shared.ErrForbidden
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}

	return s.productRepo.Delete(ctx, productID)
}

func (s *ProductService) publishAndClear(ctx context.Context, product *catalog.Product) {
	events := product.GetDomainEvents()
	product.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}
