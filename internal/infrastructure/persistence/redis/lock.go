package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/fitlife/dietplanner/internal/ports/outbound"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker hands out short-lived exclusive locks using SET NX PX
type Locker struct {
	client redis.UniversalClient
	prefix string
}

// NewLocker creates a distributed locker
func NewLocker(client redis.UniversalClient, prefix string) outbound.Locker {
	return &Locker{client: client, prefix: prefix + "lock:"}
}

// Acquire takes the lock for ttl or returns outbound.ErrLockNotAcquired
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (outbound.Lock, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.prefix+key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, outbound.ErrLockNotAcquired
	}
	return &lock{client: l.client, key: l.prefix + key, token: token}, nil
}

type lock struct {
	client redis.UniversalClient
	key    string
	token  string
}

// Release frees the lock if it has not expired and been taken by another holder
func (l *lock) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.key, err)
	}
	return nil
}
