package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Yitzhakza/electic/internal/domain/shared"
	"github.com/google/uuid"
)

type lockEntry struct {
	token     string
	expiresAt time.Time
}

// InMemoryLocker implements shared.Locker within one process.
// It is suitable for single-instance deployments and testing.
type InMemoryLocker struct {
	mu    sync.Mutex
	locks map[string]lockEntry
	now   func() time.Time
}

// NewInMemoryLocker creates an empty locker
func NewInMemoryLocker() *InMemoryLocker {
	return &InMemoryLocker{
		locks: make(map[string]lockEntry),
		now:   time.Now,
	}
}

// TryAcquire takes the key unless a live entry holds it. Expired entries are overwritten.
func (l *InMemoryLocker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if e, exists := l.locks[key]; exists && now.Before(e.expiresAt) {
		return "", false, nil
	}

	token := uuid.NewString()
	l.locks[key] = lockEntry{token: token, expiresAt: now.Add(ttl)}
	return token, true, nil
}

// Release drops the key if token still owns it
func (l *InMemoryLocker) Release(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, exists := l.locks[key]; exists && e.token == token {
		delete(l.locks, key)
	}
	return nil
}

// Close drops all locks
func (l *InMemoryLocker) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locks = make(map[string]lockEntry)
	return nil
}

var _ shared.Locker = (*InMemoryLocker)(nil)
