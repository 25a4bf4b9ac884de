package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Yitzhakza/electic/internal/application/catalogsync"
	"github.com/Yitzhakza/electic/internal/domain/syncrun"
)

// Job names
const (
	JobCatalogSync = "catalog-sync"
	JobCouponSync  = "coupon-sync"
	JobStaleSweep  = "stale-run-sweep"
)

// SyncRunner starts catalog syncs
type SyncRunner interface {
	RunSync(ctx context.Context, opts catalogsync.RunOptions) (uuid.UUID, error)
}

// CouponRunner refreshes coupons
type CouponRunner interface {
	Run(ctx context.Context) (catalogsync.CouponSyncResult, error)
}

// StaleSweeper fails abandoned sync runs
type StaleSweeper interface {
	SweepStaleRuns(ctx context.Context, olderThan time.Duration) (int, error)
}

// SyncJob runs a cron-triggered catalog sync. A sync already in progress is
// skipped, not treated as a failure.
func SyncJob(runner SyncRunner, logger *zap.Logger) JobFunc {
	return func(ctx context.Context) error {
		id, err := runner.RunSync(ctx, catalogsync.RunOptions{TriggeredBy: syncrun.TriggerCron})
		if errors.Is(err, syncrun.ErrSyncInProgress) {
			logger.Info("Scheduled sync skipped, another sync is running")
			return nil
		}
		if err != nil {
			return err
		}
		logger.Info("Scheduled sync finished", zap.String("sync_run_id", id.String()))
		return nil
	}
}

// CouponSyncJob runs a coupon refresh, skipping when one is in progress
func CouponSyncJob(runner CouponRunner, logger *zap.Logger) JobFunc {
	return func(ctx context.Context) error {
		result, err := runner.Run(ctx)
		if errors.Is(err, syncrun.ErrSyncInProgress) {
			logger.Info("Scheduled coupon sync skipped, another coupon sync is running")
			return nil
		}
		if err != nil {
			return err
		}
		logger.Info("Scheduled coupon sync finished",
			zap.Int("promotions", result.Promotions),
			zap.Int("products_updated", result.ProductsUpdated),
		)
		return nil
	}
}

// StaleSweepJob fails runs left running longer than olderThan
func StaleSweepJob(sweeper StaleSweeper, olderThan time.Duration) JobFunc {
	return func(ctx context.Context) error {
		_, err := sweeper.SweepStaleRuns(ctx, olderThan)
		return err
	}
}
