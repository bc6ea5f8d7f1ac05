package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/internal/infrastructure/store"
	"github.com/sangkips/shopledger-api/pkg/apperror"
	"go.uber.org/zap"
)

// ShopService handles shop reference data
type ShopService struct {
	store *store.Store
	log   *zap.Logger
}

// NewShopService creates a new shop service
func NewShopService(st *store.Store, log *zap.Logger) *ShopService {
	return &ShopService{store: st, log: log.Named("shops")}
}

// ListShops returns every shop in creation order
func (s *ShopService) ListShops() []entity.Shop {
	return s.store.ListShops()
}

// GetShop returns a shop by id
func (s *ShopService) GetShop(id uuid.UUID) (*entity.Shop, error) {
	shop, ok := s.store.GetShop(id)
	if !ok {
		return nil, apperror.NewShopNotFound(fmt.Sprintf("Shop %s not found", id))
	}
	return &shop, nil
}

// EnsureShops creates the shops described by specs ("Name:TYPE") that do not
// exist yet, matching by name. It returns how many were created.
func (s *ShopService) EnsureShops(ctx context.Context, specs []string) (int, error) {
	existing := make(map[string]bool)
	for _, sh := range s.store.ListShops() {
		existing[sh.Name] = true
	}

	var created []entity.Shop
	for _, spec := range specs {
		shop, err := parseShopSpec(spec)
		if err != nil {
			return 0, err
		}
		if existing[shop.Name] {
			continue
		}
		existing[shop.Name] = true
		s.store.PutShop(shop)
		created = append(created, shop)
	}

	if len(created) == 0 {
		return 0, nil
	}
	s.store.Persist("seed shops", func(ctx context.Context, repos *repository.Repositories) error {
		for i := range created {
			if err := repos.Shops.Upsert(ctx, &created[i]); err != nil {
				return err
			}
		}
		return nil
	})
	s.log.Info("seeded shops", zap.Int("count", len(created)))
	return len(created), nil
}

func parseShopSpec(spec string) (entity.Shop, error) {
	name, kind, found := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	shopType := enum.ShopTypeHybrid
	if found {
		shopType = enum.ShopType(strings.ToUpper(strings.TrimSpace(kind)))
	}
	if name == "" || !shopType.Valid() {
		return entity.Shop{}, apperror.NewFieldError("shops", fmt.Sprintf("invalid shop spec %q", spec))
	}
	return entity.Shop{
		ID:        uuid.New(),
		Name:      name,
		Type:      shopType,
		CreatedAt: now(),
		UpdatedAt: now(),
	}, nil
}
