package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=200"`
	Description   string `json:"description" binding:"max=2000"`
	Price         int64  `json:"price" binding:"min=0"`
	StockQuantity int64  `json:"stock_quantity" binding:"min=0"`
}

// UpdateProductRequest represents a request to update product details
type UpdateProductRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
}

// ChangePriceRequest represents a request to change a product's price
type ChangePriceRequest struct {
	Price int64 `json:"price" binding:"min=0"`
}

// AdjustStockRequest represents a manual stock correction
type AdjustStockRequest struct {
	Delta int64 `json:"delta" binding:"required"`
}

// ProductListFilter represents filtering options for listing products
type ProductListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
}

// ProductResponse represents a product in responses
type ProductResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Price         int64     `json:"price"`
	StockQuantity int64     `json:"stock_quantity"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToProductResponse converts a product aggregate to a response DTO
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price,
		StockQuantity: product.StockQuantity,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

// ToProductResponses converts products to response DTOs
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses
}
