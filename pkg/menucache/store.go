package menucache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCacheMiss is returned by Store.Get when the key is absent or expired.
	ErrCacheMiss = errors.New("menucache: cache miss")
)

// Store is the key-value backend behind the cache-aside service. Implementations
// must treat an expired entry as absent: a payload is never returned after its
// TTL elapses.
//
// The store is strictly an optimization. Callers of the Service never see
// store errors; RedisStore and MemoryStore exist so deployments without a
// Redis server still get in-process caching.
type Store interface {
	// Get returns the payload cached under key, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set caches payload under key for ttl.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// Delete removes every named key. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
