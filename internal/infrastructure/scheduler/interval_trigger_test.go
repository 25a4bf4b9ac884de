package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIntervalTriggerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  IntervalTriggerConfig
		wantErr bool
	}{
		{"valid", IntervalTriggerConfig{Name: "sync", Interval: time.Hour}, false},
		{"missing name", IntervalTriggerConfig{Interval: time.Hour}, true},
		{"zero interval", IntervalTriggerConfig{Name: "sync"}, true},
		{"negative timeout", IntervalTriggerConfig{Name: "sync", Interval: time.Hour, Timeout: -time.Second}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewIntervalTrigger_RequiresJob(t *testing.T) {
	_, err := NewIntervalTrigger(IntervalTriggerConfig{Name: "sync", Interval: time.Hour}, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestIntervalTrigger_Lifecycle(t *testing.T) {
	var runs atomic.Int32
	trigger, err := NewIntervalTrigger(
		IntervalTriggerConfig{Name: "tick", Interval: 10 * time.Millisecond},
		func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
		zap.NewNop(),
	)
	require.NoError(t, err)
	assert.False(t, trigger.IsRunning())

	ctx := context.Background()
	require.NoError(t, trigger.Start(ctx))
	require.NoError(t, trigger.Start(ctx), "second start is a no-op")
	assert.True(t, trigger.IsRunning())

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, trigger.Stop(ctx))
	require.NoError(t, trigger.Stop(ctx), "second stop is a no-op")
	assert.False(t, trigger.IsRunning())

	stopped := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
}

func TestIntervalTrigger_RunOnStart(t *testing.T) {
	ran := make(chan struct{}, 1)
	trigger, err := NewIntervalTrigger(
		IntervalTriggerConfig{Name: "eager", Interval: time.Hour, RunOnStart: true},
		func(ctx context.Context) error {
			ran <- struct{}{}
			return nil
		},
		nil,
	)
	require.NoError(t, err)
	require.NoError(t, trigger.Start(context.Background()))
	defer func() { _ = trigger.Stop(context.Background()) }()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
}

func TestIntervalTrigger_RecordsErrorsAndPanics(t *testing.T) {
	var calls atomic.Int32
	trigger, err := NewIntervalTrigger(
		IntervalTriggerConfig{Name: "flaky", Interval: 5 * time.Millisecond, RunOnStart: true},
		func(ctx context.Context) error {
			if calls.Add(1) == 1 {
				panic("boom")
			}
			return errors.New("upstream down")
		},
		nil,
	)
	require.NoError(t, err)
	require.NoError(t, trigger.Start(context.Background()))

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond,
		"the loop survives a panicking job")
	require.NoError(t, trigger.Stop(context.Background()))

	last, lastErr := trigger.LastRun()
	assert.False(t, last.IsZero())
	assert.Error(t, lastErr)
}

func TestIntervalTrigger_TimeoutCancelsRun(t *testing.T) {
	done := make(chan error, 1)
	trigger, err := NewIntervalTrigger(
		IntervalTriggerConfig{Name: "slow", Interval: time.Hour, Timeout: 10 * time.Millisecond, RunOnStart: true},
		func(ctx context.Context) error {
			<-ctx.Done()
			done <- ctx.Err()
			return ctx.Err()
		},
		nil,
	)
	require.NoError(t, err)
	require.NoError(t, trigger.Start(context.Background()))
	defer func() { _ = trigger.Stop(context.Background()) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("timeout did not cancel the job")
	}
}

func TestIntervalTrigger_StopTimesOut(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	trigger, err := NewIntervalTrigger(
		IntervalTriggerConfig{Name: "stuck", Interval: time.Hour, RunOnStart: true},
		func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		},
		nil,
	)
	require.NoError(t, err)
	require.NoError(t, trigger.Start(context.Background()))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, trigger.Stop(ctx), context.DeadlineExceeded)
	close(release)
}
