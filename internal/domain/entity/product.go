package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a stock record owned by exactly one shop. Records in different
// shops that share a Name are treated as the same catalog item by transfers.
type Product struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ShopID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"shop_id"`
	Seq            int64           `gorm:"not null;index" json:"-"`
	Name           string          `gorm:"size:255;not null;index" json:"name"`
	Category       string          `gorm:"size:255" json:"category"`
	RetailPrice    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"retail_price"`
	WholesalePrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"wholesale_price"`
	Stock          int             `gorm:"not null;default:0" json:"stock"`
	Description    *string         `gorm:"type:text" json:"description,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
