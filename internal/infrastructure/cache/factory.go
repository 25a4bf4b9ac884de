package cache

import (
	"context"
	"fmt"

	"github.com/Yitzhakza/electic/internal/domain/shared"
	"github.com/Yitzhakza/electic/internal/infrastructure/config"
	"go.uber.org/zap"
)

// LockerFactory creates the sync lock based on configuration
type LockerFactory struct {
	backend               string
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// LockerFactoryOption is a functional option for configuring the factory
type LockerFactoryOption func(*LockerFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) LockerFactoryOption {
	return func(f *LockerFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-memory locker. Default is true.
func WithInMemoryFallback(allow bool) LockerFactoryOption {
	return func(f *LockerFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewLockerFactory creates a new factory
func NewLockerFactory(backend string, redisCfg config.RedisConfig, opts ...LockerFactoryOption) *LockerFactory {
	f := &LockerFactory{
		backend:               backend,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Create returns the configured locker. The memory backend never touches Redis.
func (f *LockerFactory) Create(ctx context.Context) (shared.Locker, error) {
	if f.backend != config.LockBackendRedis {
		f.logger.Info("using in-memory sync lock")
		return NewInMemoryLocker(), nil
	}

	locker, err := NewRedisLocker(ctx, RedisConfig{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("using Redis sync lock", zap.String("addr", f.redisConfig.Addr()))
		return locker, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for sync lock but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory sync lock. "+
		"Concurrent instances may run overlapping syncs.",
		zap.Error(err),
	)
	return NewInMemoryLocker(), nil
}
