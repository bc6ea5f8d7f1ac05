package repository

import (
	"context"

	"github.com/sangkips/shopledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"gorm.io/gorm"
)

type shopRepository struct {
	db *gorm.DB
}

// NewShopRepository creates a new shop repository
func NewShopRepository(db *gorm.DB) domainRepo.ShopRepository {
	return &shopRepository{db: db}
}

func (r *shopRepository) Upsert(ctx context.Context, shop *entity.Shop) error {
	return r.db.WithContext(ctx).Scopes(upsert).Create(shop).Error
}

func (r *shopRepository) List(ctx context.Context) ([]entity.Shop, error) {
	var shops []entity.Shop
	err := r.db.WithContext(ctx).Order("created_at ASC").Order("name ASC").Find(&shops).Error
	return shops, err
}
