package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/campusware/gitread/internal/domain/repositories"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// CacheRepository is the in-process response cache used when no Redis is
// configured (and by tests of the layers above). Expired entries are
// dropped lazily on access.
type CacheRepository struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

var _ repositories.CacheRepository = (*CacheRepository)(nil)

// NewCacheRepository creates an empty in-process cache.
func NewCacheRepository() *CacheRepository {
	return &CacheRepository{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached payload and whether the key was present.
func (it *CacheRepository) Get(_ context.Context, key string) ([]byte, bool, error) {
	it.mu.RLock()
	cached, ok := it.entries[key]
	it.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if it.now().After(cached.expiresAt) {
		it.mu.Lock()
		delete(it.entries, key)
		it.mu.Unlock()
		return nil, false, nil
	}
	return cached.value, true, nil
}

// Set stores a payload under key for ttl.
func (it *CacheRepository) Set(
	_ context.Context,
	key string,
	value []byte,
	ttl time.Duration,
) error {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.entries[key] = entry{value: value, expiresAt: it.now().Add(ttl)}
	return nil
}

// Delete removes a single key; absent keys are not an error.
func (it *CacheRepository) Delete(_ context.Context, key string) error {
	it.mu.Lock()
	defer it.mu.Unlock()
	delete(it.entries, key)
	return nil
}

// Keys returns every live key starting with prefix.
func (it *CacheRepository) Keys(_ context.Context, prefix string) ([]string, error) {
	it.mu.RLock()
	defer it.mu.RUnlock()
	var keys []string
	now := it.now()
	for key, cached := range it.entries {
		if strings.HasPrefix(key, prefix) && now.Before(cached.expiresAt) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
