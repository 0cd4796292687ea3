package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitlife/dietplanner/internal/ports/outbound"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CacheRepository stores byte values under a shared key prefix
type CacheRepository struct {
	client redis.UniversalClient
	prefix string
	logger *zap.Logger
}

// NewCacheRepository creates a cache whose keys are namespaced by prefix
func NewCacheRepository(client redis.UniversalClient, prefix string, logger *zap.Logger) *CacheRepository {
	return &CacheRepository{
		client: client,
		prefix: prefix,
		logger: logger.Named("redis-cache"),
	}
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)

func (r *CacheRepository) key(k string) string { return r.prefix + k }

// fail logs a redis error and wraps it with the operation and key
func (r *CacheRepository) fail(op, key string, err error) error {
	r.logger.Warn("Redis cache operation failed",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err),
	)
	return fmt.Errorf("redis %s %q: %w", op, key, err)
}

// Get returns outbound.ErrCacheMiss for absent or expired keys
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, outbound.ErrCacheMiss
	case err != nil:
		return nil, r.fail("get", key, err)
	}
	return data, nil
}

// Set stores value; a zero ttl keeps it until deleted
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		return r.fail("set", key, err)
	}
	return nil
}

// Delete removes key; deleting an absent key succeeds
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Unlink(ctx, r.key(key)).Err(); err != nil {
		return r.fail("unlink", key, err)
	}
	return nil
}

func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		return false, r.fail("exists", key, err)
	}
	return n == 1, nil
}
