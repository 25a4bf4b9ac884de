package catalogsync

import (
	"context"
	"time"
)

// Recorder receives business metrics of sync activity
type Recorder interface {
	RecordRun(ctx context.Context, triggeredBy, status string, duration time.Duration, newProducts, updatedProducts, errors int)
	RecordRejected(ctx context.Context, count int)
	RecordStaleRuns(ctx context.Context, count int)
	RecordCouponRun(ctx context.Context, status string, productsUpdated int)
}

// ProgressObserver tracks whether a sync is in flight
type ProgressObserver interface {
	SyncStarted()
	SyncFinished(success bool, at time.Time)
}

type nopRecorder struct{}

func (nopRecorder) RecordRun(context.Context, string, string, time.Duration, int, int, int) {}
func (nopRecorder) RecordRejected(context.Context, int) {}
func (nopRecorder) RecordStaleRuns(context.Context, int) {}
func (nopRecorder) RecordCouponRun(context.Context, string, int) {}

type nopProgress struct{}

func (nopProgress) SyncStarted() {}
func (nopProgress) SyncFinished(bool, time.Time) {}
