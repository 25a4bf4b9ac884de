package catalogsync

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Yitzhakza/electic/internal/domain/syncrun"
)

// StaleRunSweeper fails sync runs left running by a process that died or
// timed out mid-run.
type StaleRunSweeper struct {
	runs    syncrun.Repository
	logs    syncrun.LogRepository
	metrics Recorder
	logger  *zap.Logger
	now     func() time.Time
}

// NewStaleRunSweeper creates a sweeper
func NewStaleRunSweeper(runs syncrun.Repository, logs syncrun.LogRepository, metrics Recorder, logger *zap.Logger) *StaleRunSweeper {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaleRunSweeper{
		runs:    runs,
		logs:    logs,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// SweepStaleRuns marks every run still running after olderThan as failed and
// returns how many were closed. A run that fails to update is logged and skipped.
func (s *StaleRunSweeper) SweepStaleRuns(ctx context.Context, olderThan time.Duration) (int, error) {
	now := s.now()
	stale, err := s.runs.FindRunningStartedBefore(ctx, now.Add(-olderThan))
	if err != nil {
		s.logger.Error("Failed to find stale sync runs", zap.Error(err))
		return 0, err
	}
	if len(stale) == 0 {
		s.logger.Debug("No stale sync runs found")
		return 0, nil
	}

	swept := 0
	for i := range stale {
		run := &stale[i]
		if err := run.MarkAbandoned(now, olderThan); err != nil {
			continue
		}
		if err := s.runs.Update(ctx, run); err != nil {
			s.logger.Error("Failed to mark stale sync run failed",
				zap.String("sync_run_id", run.ID.String()),
				zap.Error(err),
			)
			continue
		}
		writeSyncLog(ctx, s.logs, now, run.ID, nil, syncrun.LevelError,
			fmt.Sprintf("Fatal sync error: %s", run.Errors[len(run.Errors)-1]), map[string]any{
				"startedAt": run.StartedAt.UTC().Format(time.RFC3339),
			})
		swept++
	}

	s.metrics.RecordStaleRuns(ctx, swept)
	s.logger.Info("Stale sync runs swept",
		zap.Int("found", len(stale)),
		zap.Int("failed", swept),
	)
	return swept, nil
}
