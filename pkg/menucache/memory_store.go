package menucache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryStore implements Store with an in-process TTL cache. It is the
// default for tests and for single-instance deployments without Redis.
type MemoryStore struct {
	cache *ttlcache.Cache[string, []byte]
}

// NewMemoryStore creates a started in-memory store.
// Touch-on-hit is disabled so a read never extends the TTL window; the
// cache-aside contract requires hard expiry relative to population time.
func NewMemoryStore() *MemoryStore {
	cache := ttlcache.New(
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)
	go cache.Start()
	return &MemoryStore{cache: cache}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	item := s.cache.Get(key)
	if item == nil {
		return nil, ErrCacheMiss
	}
	return item.Value(), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	s.cache.Set(key, payload, ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.cache.Delete(key)
	}
	return nil
}

// Stop terminates the background expiry loop.
func (s *MemoryStore) Stop() {
	s.cache.Stop()
}
