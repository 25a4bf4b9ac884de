package ecommerce

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttle spaces outbound API calls. A call may start only when the
// interval has passed since both the previous start and the previous
// response. One Throttle is shared by every client of the same account.
type Throttle struct {
	interval time.Duration
	limiter  *rate.Limiter

	mu           sync.Mutex
	lastResponse time.Time
}

// NewThrottle creates a throttle with the given minimum spacing.
// A non-positive interval disables throttling.
func NewThrottle(interval time.Duration) *Throttle {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Throttle{
		interval: interval,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Wait blocks until a call may start or ctx is done
func (t *Throttle) Wait(ctx context.Context) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	if t.interval <= 0 {
		return nil
	}

	t.mu.Lock()
	last := t.lastResponse
	t.mu.Unlock()
	if last.IsZero() {
		return nil
	}
	remaining := t.interval - time.Since(last)
	if remaining <= 0 {
		return nil
	}
	return sleepContext(ctx, remaining)
}

// MarkResponse records that a response arrived
func (t *Throttle) MarkResponse() {
	t.mu.Lock()
	t.lastResponse = time.Now()
	t.mu.Unlock()
}
