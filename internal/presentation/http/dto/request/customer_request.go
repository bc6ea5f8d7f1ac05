package request

import (
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name        string            `json:"name" binding:"required,max=255"`
	Phone       string            `json:"phone" binding:"max=50"`
	Type        enum.CustomerType `json:"type"`
	CreditLimit *decimal.Decimal  `json:"credit_limit"`
}

// UpdateCustomerRequest represents a customer update request. Debt is not
// editable.
type UpdateCustomerRequest struct {
	Name             *string            `json:"name" binding:"omitempty,max=255"`
	Phone            *string            `json:"phone" binding:"omitempty,max=50"`
	Type             *enum.CustomerType `json:"type"`
	CreditLimit      *decimal.Decimal   `json:"credit_limit"`
	ClearCreditLimit bool               `json:"clear_credit_limit"`
}
