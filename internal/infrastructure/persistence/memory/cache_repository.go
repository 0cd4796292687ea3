// Package memory provides in-process cache, lock and event adapters used
// when Redis is disabled
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fitlife/dietplanner/internal/ports/outbound"
)

// entry expires at expiresAt; the zero time never expires
type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// CacheRepository is a process-local cache with per-key expiry
type CacheRepository struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

func NewCacheRepository() *CacheRepository {
	return &CacheRepository{data: make(map[string]entry), now: time.Now}
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)

// Get returns a copy of the value, or outbound.ErrCacheMiss
func (r *CacheRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	e, ok := r.data[key]
	r.mu.RUnlock()
	if !ok || e.expired(r.now()) {
		return nil, outbound.ErrCacheMiss
	}
	return append([]byte(nil), e.value...), nil
}

// Set stores a copy of value; a zero ttl keeps it until deleted
func (r *CacheRepository) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = r.now().Add(ttl)
	}
	r.mu.Lock()
	r.data[key] = e
	r.mu.Unlock()
	return nil
}

func (r *CacheRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	delete(r.data, key)
	r.mu.Unlock()
	return nil
}

func (r *CacheRepository) Exists(_ context.Context, key string) (bool, error) {
	r.mu.RLock()
	e, ok := r.data[key]
	r.mu.RUnlock()
	return ok && !e.expired(r.now()), nil
}

// Run sweeps expired entries every interval until ctx is done
func (r *CacheRepository) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.evictExpired()
		}
	}
}

func (r *CacheRepository) evictExpired() {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, e := range r.data {
		if e.expired(now) {
			delete(r.data, key)
		}
	}
}
