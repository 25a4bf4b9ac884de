package shared

import (
	"context"
	"time"
)

// Locker grants exclusive, expiring ownership of a named key
type Locker interface {
	// TryAcquire takes the key for ttl. ok is false when another holder owns it.
	// The returned token must be passed to Release.
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)

	// Release frees the key if token still owns it
	Release(ctx context.Context, key, token string) error

	// Close releases resources held by the locker
	Close() error
}
