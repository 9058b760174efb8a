package catalog

import (
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// Product represents a sellable item with a price and an on-hand stock count.
// It is the aggregate root for catalog operations. Prices are stored in
// minor currency units (cents) to keep arithmetic exact.
type Product struct {
	shared.BaseAggregateRoot
	Name          string `gorm:"type:varchar(200);not null"`
	Description   string `gorm:"type:text"`
	Price         int64  `gorm:"not null;default:0"`
	StockQuantity int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, description string, price, stockQuantity int64) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price < 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Price cannot be negative")
	}
	if stockQuantity < 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Stock quantity cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Description:       description,
		Price:             price,
		StockQuantity:     stockQuantity,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// ChangePrice sets a new selling price. Orders already placed keep the
// price they were purchased at.
func (p *Product) ChangePrice(price int64) error {
	if price < 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Price cannot be negative")
	}

	p.Price = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p))

	return nil
}

// AdjustStock applies a manual stock correction (receiving, stocktake).
// The resulting quantity must not be negative.
func (p *Product) AdjustStock(delta int64) error {
	if p.StockQuantity+delta < 0 {
		return shared.ErrInsufficientStock
	}

	p.StockQuantity += delta
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockAdjustedEvent(p, delta))

	return nil
}

// IsInStock reports whether at least qty units are available
func (p *Product) IsInStock(qty int64) bool {
	return p.StockQuantity >= qty
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("VALIDATION_ERROR", "Product name cannot exceed 200 characters")
	}
	return nil
}
