package store

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"
)

// CustomerKey serializes debt updates for one customer
func CustomerKey(id uuid.UUID) string { return "customer:" + id.String() }

// ProductKey serializes stock updates for one product record
func ProductKey(id uuid.UUID) string { return "product:" + id.String() }

// StockKey guards the set of products named name in a shop. Creating,
// renaming or transferring a product holds it so name lookups stay stable.
func StockKey(shopID uuid.UUID, name string) string {
	return "stock:" + shopID.String() + ":" + name
}

// KeyLocker hands out one mutex per key. Callers that need several keys must
// take them in a single Lock call so they are acquired in sorted order. An
// operation that needs stock keys takes them before any product key.
type KeyLocker struct {
	locks cmap.ConcurrentMap[string, *sync.Mutex]
}

func NewKeyLocker() *KeyLocker {
	return &KeyLocker{locks: cmap.New[*sync.Mutex]()}
}

// Lock acquires every key and returns a func releasing them
func (l *KeyLocker) Lock(keys ...string) (unlock func()) {
	keys = dedupe(keys)
	sort.Strings(keys)

	held := make([]*sync.Mutex, 0, len(keys))
	for _, k := range keys {
		mu := l.mutex(k)
		mu.Lock()
		held = append(held, mu)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(held) - 1; i >= 0; i-- {
				held[i].Unlock()
			}
		})
	}
}

func (l *KeyLocker) mutex(key string) *sync.Mutex {
	return l.locks.Upsert(key, nil, func(exist bool, current, _ *sync.Mutex) *sync.Mutex {
		if exist {
			return current
		}
		return &sync.Mutex{}
	})
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
