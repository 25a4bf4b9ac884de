package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JobFunc is the work an IntervalTrigger runs on every tick
type JobFunc func(ctx context.Context) error

// IntervalTriggerConfig holds configuration for an interval trigger
type IntervalTriggerConfig struct {
	// Name identifies the job in logs
	Name string

	// Interval is the time between runs
	Interval time.Duration

	// Timeout bounds a single run. Zero means no timeout.
	Timeout time.Duration

	// RunOnStart runs the job once immediately after Start
	RunOnStart bool
}

// Validate checks the trigger configuration
func (c IntervalTriggerConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: job name is required", ErrInvalidConfig)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: %s interval must be positive", ErrInvalidConfig, c.Name)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: %s timeout cannot be negative", ErrInvalidConfig, c.Name)
	}
	return nil
}

// IntervalTrigger runs a job every interval on a ticker. Runs never overlap:
// a tick that arrives while the job is still running is dropped.
type IntervalTrigger struct {
	config IntervalTriggerConfig
	job    JobFunc
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	lastRun   time.Time
	lastErr   error
}

// NewIntervalTrigger creates a new interval trigger
func NewIntervalTrigger(config IntervalTriggerConfig, job JobFunc, logger *zap.Logger) (*IntervalTrigger, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("%w: %s has no job", ErrInvalidConfig, config.Name)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntervalTrigger{
		config: config,
		job:    job,
		logger: logger.With(zap.String("job", config.Name)),
	}, nil
}

// Name returns the job name
func (t *IntervalTrigger) Name() string {
	return t.config.Name
}

// Start starts the trigger loop
func (t *IntervalTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Interval trigger started",
		zap.Duration("interval", t.config.Interval),
		zap.Duration("timeout", t.config.Timeout),
		zap.Bool("run_on_start", t.config.RunOnStart),
	)
	return nil
}

// Stop stops the trigger and waits for an in-flight run until ctx is done
func (t *IntervalTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Interval trigger stopped")
		return nil
	case <-ctx.Done():
		t.logger.Warn("Interval trigger stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the trigger loop is active
func (t *IntervalTrigger) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isRunning
}

// LastRun returns when the job last finished and its error
func (t *IntervalTrigger) LastRun() (time.Time, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastRun, t.lastErr
}

func (t *IntervalTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	if t.config.RunOnStart {
		t.runOnce(ctx)
	}

	ticker := time.NewTicker(t.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.runOnce(ctx)
		}
	}
}

// runOnce executes the job with the configured timeout. A panic is logged and
// treated as a failed run so the loop keeps going.
func (t *IntervalTrigger) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	runCtx := ctx
	if t.config.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := t.safeRun(runCtx)
	elapsed := time.Since(start)

	t.mu.Lock()
	t.lastRun = time.Now()
	t.lastErr = err
	t.mu.Unlock()

	if err != nil {
		t.logger.Error("Scheduled job failed", zap.Duration("duration", elapsed), zap.Error(err))
		return
	}
	t.logger.Debug("Scheduled job finished", zap.Duration("duration", elapsed))
}

func (t *IntervalTrigger) safeRun(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrJobPanicked, r)
		}
	}()
	return t.job(ctx)
}
