package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer is a buyer with a single debt balance shared by every shop.
// TotalDebt is a cached aggregate maintained by each sale, payment and expense.
type Customer struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Seq         int64             `gorm:"not null;index" json:"-"`
	Name        string            `gorm:"size:255;not null" json:"name"`
	Phone       string            `gorm:"size:50" json:"phone"`
	Type        enum.CustomerType `gorm:"size:20;not null" json:"type"`
	CreditLimit *decimal.Decimal  `gorm:"type:decimal(18,2)" json:"credit_limit,omitempty"`
	TotalDebt   decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0" json:"total_debt"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// OverCreditLimit reports whether the cached debt exceeds the credit limit.
// Customers without a limit are never over it.
func (c *Customer) OverCreditLimit() bool {
	return c.CreditLimit != nil && c.TotalDebt.GreaterThan(*c.CreditLimit)
}
