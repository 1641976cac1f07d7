package memory

import "time"

// SetNow overrides the cache clock so tests can advance time.
func (it *CacheRepository) SetNow(now func() time.Time) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.now = now
}
