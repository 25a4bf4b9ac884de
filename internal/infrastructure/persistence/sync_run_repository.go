package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/Yitzhakza/electic/internal/domain/syncrun"
	"github.com/Yitzhakza/electic/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSyncRunRepository implements syncrun.Repository using GORM
type GormSyncRunRepository struct {
	db *gorm.DB
}

// NewGormSyncRunRepository creates a new GormSyncRunRepository
func NewGormSyncRunRepository(db *gorm.DB) *GormSyncRunRepository {
	return &GormSyncRunRepository{db: db}
}

// Create inserts a new sync run
func (r *GormSyncRunRepository) Create(ctx context.Context, run *syncrun.SyncRun) error {
	return r.db.WithContext(ctx).Create(models.SyncRunModelFromDomain(run)).Error
}

// Update writes the mutable columns of a sync run. Only a row still running
// is written; a run another writer already finished yields ErrSyncRunTerminal.
func (r *GormSyncRunRepository) Update(ctx context.Context, run *syncrun.SyncRun) error {
	m := models.SyncRunModelFromDomain(run)
	result := r.db.WithContext(ctx).
		Model(&models.SyncRunModel{}).
		Where("id = ? AND status = ?", run.ID, string(syncrun.StatusRunning)).
		Select("completed_at", "status", "total_queries", "total_products",
			"new_products", "updated_products", "errors").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.SyncRunModel{}).Where("id = ?", run.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return syncrun.ErrSyncRunNotFound
	}
	return syncrun.ErrSyncRunTerminal
}

// FindByID finds a sync run by its ID
func (r *GormSyncRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*syncrun.SyncRun, error) {
	var m models.SyncRunModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, syncrun.ErrSyncRunNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindRecent returns the latest runs, newest first
func (r *GormSyncRunRepository) FindRecent(ctx context.Context, limit int) ([]syncrun.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []models.SyncRunModel
	if err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toSyncRuns(rows), nil
}

// FindRunningStartedBefore returns runs still running that started before the cutoff
func (r *GormSyncRunRepository) FindRunningStartedBefore(ctx context.Context, before time.Time) ([]syncrun.SyncRun, error) {
	var rows []models.SyncRunModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND started_at < ?", string(syncrun.StatusRunning), before).
		Order("started_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toSyncRuns(rows), nil
}

func toSyncRuns(rows []models.SyncRunModel) []syncrun.SyncRun {
	runs := make([]syncrun.SyncRun, len(rows))
	for i := range rows {
		runs[i] = *rows[i].ToDomain()
	}
	return runs
}

// Ensure GormSyncRunRepository implements syncrun.Repository
var _ syncrun.Repository = (*GormSyncRunRepository)(nil)

// GormSyncLogRepository implements syncrun.LogRepository using GORM
type GormSyncLogRepository struct {
	db *gorm.DB
}

// NewGormSyncLogRepository creates a new GormSyncLogRepository
func NewGormSyncLogRepository(db *gorm.DB) *GormSyncLogRepository {
	return &GormSyncLogRepository{db: db}
}

// Append inserts a log event
func (r *GormSyncLogRepository) Append(ctx context.Context, log *syncrun.SyncLog) error {
	return r.db.WithContext(ctx).Create(models.SyncLogModelFromDomain(log)).Error
}

// FindByRun returns the run's logs newest first
func (r *GormSyncLogRepository) FindByRun(ctx context.Context, runID uuid.UUID) ([]syncrun.SyncLog, error) {
	var rows []models.SyncLogModel
	if err := r.db.WithContext(ctx).
		Where("sync_run_id = ?", runID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	logs := make([]syncrun.SyncLog, len(rows))
	for i := range rows {
		logs[i] = *rows[i].ToDomain()
	}
	return logs, nil
}

// Ensure GormSyncLogRepository implements syncrun.LogRepository
var _ syncrun.LogRepository = (*GormSyncLogRepository)(nil)
