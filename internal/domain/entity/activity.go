package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"gorm.io/gorm"
)

// ActivityLog is an append-only audit entry. Entries are never updated.
// RelatedShopID is the second shop an entry touches, such as the
// destination of a stock transfer.
type ActivityLog struct {
	ID            uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	Seq           int64               `gorm:"not null;index" json:"-"`
	ShopID        *uuid.UUID          `gorm:"type:uuid;index" json:"shop_id,omitempty"`
	RelatedShopID *uuid.UUID          `gorm:"type:uuid;index" json:"related_shop_id,omitempty"`
	CustomerID    *uuid.UUID          `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Date          time.Time           `gorm:"not null;index" json:"date"`
	Action        enum.ActivityAction `gorm:"size:50;not null" json:"action"`
	Description   string              `gorm:"type:text" json:"description"`
	PerformedBy   string              `gorm:"size:255" json:"performed_by"`
	ShopName      string              `gorm:"size:255" json:"shop_name,omitempty"`
}

// InvolvesShop reports whether the entry belongs to shopID on either side
func (a ActivityLog) InvolvesShop(shopID uuid.UUID) bool {
	return (a.ShopID != nil && *a.ShopID == shopID) ||
		(a.RelatedShopID != nil && *a.RelatedShopID == shopID)
}

// BeforeCreate generates a UUID before creating a new activity entry
func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ActivityLog model
func (ActivityLog) TableName() string {
	return "activity_logs"
}
