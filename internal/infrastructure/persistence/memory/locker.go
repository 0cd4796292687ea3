package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fitlife/dietplanner/internal/ports/outbound"
	"github.com/google/uuid"
)

// Locker provides process-local exclusive locks with expiry
type Locker struct {
	mu   sync.Mutex
	held map[string]heldLock
	now  func() time.Time
}

type heldLock struct {
	token     string
	expiresAt time.Time
}

// NewLocker creates an in-process locker
func NewLocker() *Locker {
	return &Locker{held: make(map[string]heldLock), now: time.Now}
}

var _ outbound.Locker = (*Locker)(nil)

// Acquire takes the lock for ttl or returns outbound.ErrLockNotAcquired
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (outbound.Lock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if h, ok := l.held[key]; ok && now.Before(h.expiresAt) {
		return nil, outbound.ErrLockNotAcquired
	}

	token := uuid.NewString()
	l.held[key] = heldLock{token: token, expiresAt: now.Add(ttl)}
	return &memoryLock{locker: l, key: key, token: token}, nil
}

type memoryLock struct {
	locker *Locker
	key    string
	token  string
}

func (m *memoryLock) Release(ctx context.Context) error {
	m.locker.mu.Lock()
	defer m.locker.mu.Unlock()
	if h, ok := m.locker.held[m.key]; ok && h.token == m.token {
		delete(m.locker.held, m.key)
	}
	return nil
}
