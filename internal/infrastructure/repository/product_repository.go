package repository

import (
	"context"

	"github.com/sangkips/shopledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

// Upsert writes the full product row, including the stock level. Stock is
// owned by the in-memory store, so the last mirrored value wins.
func (r *productRepository) Upsert(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Scopes(upsert).Create(product).Error
}

func (r *productRepository) List(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).Scopes(InsertionOrder).Find(&products).Error
	return products, err
}
