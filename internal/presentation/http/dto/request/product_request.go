package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	ShopID         uuid.UUID        `json:"shop_id" binding:"required"`
	Name           string           `json:"name" binding:"required,max=255"`
	Category       string           `json:"category" binding:"max=100"`
	RetailPrice    decimal.Decimal  `json:"retail_price"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price"`
	Stock          int              `json:"stock"`
	Description    *string          `json:"description"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name           *string          `json:"name" binding:"omitempty,max=255"`
	Category       *string          `json:"category" binding:"omitempty,max=100"`
	RetailPrice    *decimal.Decimal `json:"retail_price"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price"`
	Stock          *int             `json:"stock"`
	Description    *string          `json:"description"`
}

// TransferStockRequest moves stock of a named product between shops
type TransferStockRequest struct {
	ProductName string    `json:"product_name" binding:"required"`
	FromShopID  uuid.UUID `json:"from_shop_id" binding:"required"`
	ToShopID    uuid.UUID `json:"to_shop_id" binding:"required"`
	Quantity    int       `json:"quantity" binding:"required"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	ShopID string `form:"shop_id"`
}
