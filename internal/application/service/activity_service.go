package service

import (
	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/sangkips/shopledger-api/internal/infrastructure/store"
	"github.com/sangkips/shopledger-api/pkg/utils"
)

// DefaultActor is recorded when a caller does not say who performed an operation
const DefaultActor = "system"

// ActivityService reads the audit trail
type ActivityService struct {
	store *store.Store
}

// NewActivityService creates a new activity service
func NewActivityService(st *store.Store) *ActivityService {
	return &ActivityService{store: st}
}

// ListActivityInput narrows the audit trail to one shop or one customer
type ListActivityInput struct {
	ShopID     *uuid.UUID
	CustomerID *uuid.UUID
}

// ListActivity returns entries newest first
func (s *ActivityService) ListActivity(input ListActivityInput) []entity.ActivityLog {
	return s.store.ListActivity(store.ActivityFilter{
		ShopID:     input.ShopID,
		CustomerID: input.CustomerID,
	})
}

func newActivity(action enum.ActivityAction, description, actor string, shop *entity.Shop, customerID *uuid.UUID) entity.ActivityLog {
	if actor == "" {
		actor = DefaultActor
	}
	entry := entity.ActivityLog{
		ID:          uuid.New(),
		Seq:         utils.NextSeq(),
		Date:        now(),
		Action:      action,
		Description: description,
		PerformedBy: actor,
	}
	if shop != nil {
		id := shop.ID
		entry.ShopID = &id
		entry.ShopName = shop.Name
	}
	if customerID != nil {
		id := *customerID
		entry.CustomerID = &id
	}
	return entry
}
