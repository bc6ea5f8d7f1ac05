package repository

import (
	"context"

	"github.com/sangkips/shopledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"gorm.io/gorm"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

// Upsert writes the sale header and its items. Sales are immutable, so a
// replayed job only needs the items that are not stored yet.
func (r *saleRepository) Upsert(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		header := *sale
		header.Items = nil
		if err := tx.Scopes(upsert).Create(&header).Error; err != nil {
			return err
		}
		if len(sale.Items) == 0 {
			return nil
		}
		items := make([]entity.SaleItem, len(sale.Items))
		copy(items, sale.Items)
		for i := range items {
			items[i].SaleID = sale.ID
			if items[i].Line == 0 {
				items[i].Line = i + 1
			}
		}
		return tx.Scopes(insertOnce).Create(&items).Error
	})
}

func (r *saleRepository) List(ctx context.Context) ([]entity.Sale, error) {
	var sales []entity.Sale
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("line ASC, id ASC") }).
		Scopes(InsertionOrder).
		Find(&sales).Error
	return sales, err
}
