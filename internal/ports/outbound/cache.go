package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/fitlife/dietplanner/internal/domain/shared"
)

// ErrCacheMiss is returned by CacheRepository.Get for absent or expired keys
var ErrCacheMiss = errors.New("cache miss")

// ErrLockNotAcquired is returned when another holder owns a lock
var ErrLockNotAcquired = errors.New("lock not acquired")

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Lock is a held lock
type Lock interface {
	Release(ctx context.Context) error
}

// Locker hands out short lived exclusive locks keyed by name
type Locker interface {
	// Acquire returns ErrLockNotAcquired when the key is held elsewhere
	Acquire(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

// EventPublisher publishes domain events after their transaction committed
type EventPublisher interface {
	Publish(ctx context.Context, event shared.DomainEvent) error
}
