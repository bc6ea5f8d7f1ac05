package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Shop is a sales location owning its own product and stock records
type Shop struct {
	ID        uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	Name      string        `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Type      enum.ShopType `gorm:"size:20;not null" json:"type"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new shop
func (s *Shop) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Shop model
func (Shop) TableName() string {
	return "shops"
}
