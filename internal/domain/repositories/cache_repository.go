package repositories

import (
	"context"
	"time"
)

// CacheRepository abstracts the shared, TTL-based response cache. The core
// computes the keys and consults/populates the store; eviction is owned by
// the implementation. Keys sharing a prefix must be enumerable so a whole
// repository can be invalidated at once.
type CacheRepository interface {
	// Get returns the cached payload and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a payload under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes a single key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys returns every live key starting with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
