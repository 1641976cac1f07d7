package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campusware/gitread/internal/domain/entities"
	domainRepos "github.com/campusware/gitread/internal/domain/repositories"
)

// CacheRepository implements the response cache on go-redis. Keys carry
// the repository fingerprint as a prefix, so SCAN with a MATCH pattern is
// enough to enumerate every key of one repository branch.
type CacheRepository struct {
	rdb *redis.Client
}

var _ domainRepos.CacheRepository = (*CacheRepository)(nil)

// NewCacheRepository creates a new CacheRepository on the given client.
func NewCacheRepository(rdb *redis.Client) *CacheRepository {
	return &CacheRepository{rdb: rdb}
}

// NewClient builds a redis client from settings.
func NewClient(settings *entities.Settings) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     settings.Redis.Addr,
		Password: settings.Redis.Password,
		DB:       settings.Redis.DB,
	})
}

// Get returns the cached payload and whether the key was present.
func (it *CacheRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := it.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %q: %w", key, err)
	}
	return val, true, nil
}

// Set stores a payload under key for ttl.
func (it *CacheRepository) Set(
	ctx context.Context,
	key string,
	value []byte,
	ttl time.Duration,
) error {
	if err := it.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

// Delete removes a single key; absent keys are not an error.
func (it *CacheRepository) Delete(ctx context.Context, key string) error {
	if err := it.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete %q: %w", key, err)
	}
	return nil
}

// Keys returns every live key starting with prefix.
func (it *CacheRepository) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := it.rdb.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("cache scan %q: %w", prefix, err)
	}
	return keys, nil
}
