package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
)

type idempotencyCache struct {
	keys cmap.ConcurrentMap[string, entity.IdempotencyKey]
}

// NewIdempotencyCache keeps idempotency keys in memory for deployments
// without a durable store
func NewIdempotencyCache() domainRepo.IdempotencyRepository {
	return &idempotencyCache{keys: cmap.New[entity.IdempotencyKey]()}
}

func cacheKey(key, actor string) string { return actor + "\x00" + key }

func (c *idempotencyCache) GetByKey(_ context.Context, key, actor string) (*entity.IdempotencyKey, error) {
	ikey, ok := c.keys.Get(cacheKey(key, actor))
	if !ok || ikey.IsExpired() {
		return nil, nil
	}
	return &ikey, nil
}

func (c *idempotencyCache) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	if ikey.ID == uuid.Nil {
		ikey.ID = uuid.New()
	}
	if ikey.CreatedAt.IsZero() {
		ikey.CreatedAt = time.Now()
	}
	c.keys.Set(cacheKey(ikey.Key, ikey.Actor), *ikey)
	return nil
}

func (c *idempotencyCache) DeleteExpired(_ context.Context) error {
	for key, ikey := range c.keys.Items() {
		if ikey.IsExpired() {
			c.keys.RemoveCb(key, func(_ string, v entity.IdempotencyKey, exists bool) bool {
				return exists && v.IsExpired()
			})
		}
	}
	return nil
}
