package repository

import (
	"context"

	"github.com/sangkips/shopledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"gorm.io/gorm"
)

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity log repository
func NewActivityRepository(db *gorm.DB) domainRepo.ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Append(ctx context.Context, entry *entity.ActivityLog) error {
	return r.db.WithContext(ctx).Scopes(insertOnce).Create(entry).Error
}

func (r *activityRepository) List(ctx context.Context) ([]entity.ActivityLog, error) {
	var entries []entity.ActivityLog
	err := r.db.WithContext(ctx).Scopes(InsertionOrder).Find(&entries).Error
	return entries, err
}
