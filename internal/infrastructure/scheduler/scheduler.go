package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Trigger is a background loop with a start/stop lifecycle
type Trigger interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	IsRunning() bool
}

// Scheduler starts and stops a set of triggers together
type Scheduler struct {
	logger *zap.Logger

	mu        sync.Mutex
	triggers  []Trigger
	names     map[string]struct{}
	isRunning bool
}

// NewScheduler creates a new scheduler instance
func NewScheduler(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		logger: logger,
		names:  make(map[string]struct{}),
	}
}

// Register adds a trigger. Triggers registered after Start are started immediately.
func (s *Scheduler) Register(ctx context.Context, t Trigger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.names[t.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, t.Name())
	}
	s.names[t.Name()] = struct{}{}
	s.triggers = append(s.triggers, t)

	if s.isRunning {
		return t.Start(ctx)
	}
	return nil
}

// Start starts every registered trigger
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}

	for i, t := range s.triggers {
		if err := t.Start(ctx); err != nil {
			for _, started := range s.triggers[:i] {
				_ = started.Stop(context.WithoutCancel(ctx))
			}
			return fmt.Errorf("start %s: %w", t.Name(), err)
		}
	}
	s.isRunning = true

	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.triggers)))
	return nil
}

// Stop stops every trigger, waiting for in-flight runs until ctx is done
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return nil
	}
	s.isRunning = false

	var errs []error
	for _, t := range s.triggers {
		if err := t.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", t.Name(), err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.logger.Warn("Scheduler stopped with errors", zap.Error(err))
		return err
	}
	s.logger.Info("Scheduler stopped gracefully")
	return nil
}

// IsRunning reports whether the scheduler has been started
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// Jobs returns the registered job names in registration order
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, len(s.triggers))
	for i, t := range s.triggers {
		names[i] = t.Name()
	}
	return names
}
