package syncrun

import (
	"context"
	"time"

	"github.com/Yitzhakza/electic/internal/domain/shared"
	"github.com/google/uuid"
)

// Sync run domain errors
var (
	ErrSyncRunNotFound = shared.NewDomainError("SYNC_RUN_NOT_FOUND", "Sync run not found")
	ErrSyncRunTerminal = shared.NewDomainError("SYNC_RUN_TERMINAL", "Sync run has already finished")
	ErrInvalidTrigger  = shared.NewDomainError("INVALID_TRIGGER", "Trigger must be cron or manual")
	ErrSyncInProgress  = shared.NewDomainError("SYNC_IN_PROGRESS", "Another sync run is in progress")
)

// Repository persists sync runs
type Repository interface {
	Create(ctx context.Context, run *SyncRun) error
	// Update writes status, completion time, counts and errors
	Update(ctx context.Context, run *SyncRun) error
	FindByID(ctx context.Context, id uuid.UUID) (*SyncRun, error)
	FindRecent(ctx context.Context, limit int) ([]SyncRun, error)
	FindRunningStartedBefore(ctx context.Context, before time.Time) ([]SyncRun, error)
}

// LogRepository appends and reads sync logs
type LogRepository interface {
	Append(ctx context.Context, log *SyncLog) error
	// FindByRun returns the run's logs newest first
	FindByRun(ctx context.Context, runID uuid.UUID) ([]SyncLog, error)
}
