package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is an immutable billing event. Only Balance (the unpaid part) moves
// the customer's debt.
type Sale struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Seq         int64           `gorm:"not null;index" json:"-"`
	InvoiceNo   string          `gorm:"size:100;uniqueIndex;not null" json:"invoice_no"`
	ShopID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"shop_id"`
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_amount"`
	PaidAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"paid_amount"`
	Balance     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"balance"`
	Status      enum.SaleStatus `gorm:"size:20;not null" json:"status"`
	PerformedBy string          `gorm:"size:255" json:"performed_by"`
	CreatedAt   time.Time       `json:"created_at"`

	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is a line item of a sale. Name is copied from the product at sale
// time. Line is the 1-based position in the sale.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Line      int             `gorm:"not null;default:0" json:"line"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	Total     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total"`
}

// BeforeCreate generates a UUID before creating a new sale item
func (i *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}
