package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleItemRequest is one line of a sale. Without a unit price the customer's
// price list applies.
type SaleItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest represents a sale creation request
type CreateSaleRequest struct {
	ShopID     uuid.UUID         `json:"shop_id" binding:"required"`
	CustomerID uuid.UUID         `json:"customer_id" binding:"required"`
	Items      []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	PaidAmount decimal.Decimal   `json:"paid_amount"`
	Date       *time.Time        `json:"date"`
}

// RecordPaymentRequest represents a payment against a customer's debt
type RecordPaymentRequest struct {
	CustomerID uuid.UUID       `json:"customer_id" binding:"required"`
	ShopID     uuid.UUID       `json:"shop_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount"`
	Date       *time.Time      `json:"date"`
}

// RecordExpenseRequest represents a charge added to a customer's debt
type RecordExpenseRequest struct {
	CustomerID  uuid.UUID       `json:"customer_id" binding:"required"`
	ShopID      uuid.UUID       `json:"shop_id" binding:"required"`
	Description string          `json:"description" binding:"required,max=500"`
	Amount      decimal.Decimal `json:"amount"`
	Date        *time.Time      `json:"date"`
}

// ActivityFilterRequest represents activity filter parameters
type ActivityFilterRequest struct {
	ShopID     string `form:"shop_id"`
	CustomerID string `form:"customer_id"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
