package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Attribute keys shared by the sync instruments
var (
	AttrTriggeredBy = attribute.Key("triggered_by")
	AttrStatus      = attribute.Key("status")
	AttrResult      = attribute.Key("result")
)

// SyncDurationBuckets are histogram boundaries in seconds. A run makes one
// throttled call per query, so runs last minutes.
var SyncDurationBuckets = []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200}

// ErrMeterNil is returned when SyncMetricsConfig has no meter
var ErrMeterNil = errors.New("telemetry: sync metrics need a meter")

// SyncMetrics records catalog sync activity through an OpenTelemetry meter.
// It implements catalogsync.Recorder.
type SyncMetrics struct {
	logger *zap.Logger

	runs             metric.Int64Counter
	runDuration      metric.Float64Histogram
	products         metric.Int64Counter
	runErrors        metric.Int64Counter
	staleRuns        metric.Int64Counter
	couponRuns       metric.Int64Counter
	couponProducts   metric.Int64Counter
	rejectedProducts metric.Int64Counter
}

// SyncMetricsConfig holds configuration for sync metrics.
type SyncMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewSyncMetrics creates the sync instruments on cfg.Meter.
func NewSyncMetrics(cfg SyncMetricsConfig) (*SyncMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	sm := &SyncMetrics{logger: cfg.Logger}
	if sm.logger == nil {
		sm.logger = zap.NewNop()
	}

	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
		unit        string
	}{
		{&sm.runs, "electic_sync_runs_total", "Completed sync runs by trigger and status", "{runs}"},
		{&sm.products, "electic_sync_products_total", "Products written by sync, by result", "{products}"},
		{&sm.runErrors, "electic_sync_errors_total", "Per-product and per-query errors recorded on sync runs", "{errors}"},
		{&sm.staleRuns, "electic_sync_stale_runs_total", "Running sync runs marked failed by the stale sweep", "{runs}"},
		{&sm.couponRuns, "electic_coupon_sync_runs_total", "Coupon sync runs by status", "{runs}"},
		{&sm.couponProducts, "electic_coupon_sync_products_total", "Products whose coupon was refreshed from the marketplace", "{products}"},
		{&sm.rejectedProducts, "electic_sync_rejected_products_total", "Raw products the normalizer rejected", "{products}"},
	}
	for _, c := range counters {
		counter, err := cfg.Meter.Int64Counter(c.name, metric.WithDescription(c.description), metric.WithUnit(c.unit))
		if err != nil {
			return nil, fmt.Errorf("create counter %s: %w", c.name, err)
		}
		*c.target = counter
	}

	var err error
	sm.runDuration, err = cfg.Meter.Float64Histogram("electic_sync_run_duration_seconds",
		metric.WithDescription("Wall time of sync runs"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(SyncDurationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("create histogram electic_sync_run_duration_seconds: %w", err)
	}
	return sm, nil
}

// RecordRun records a finished sync run.
func (sm *SyncMetrics) RecordRun(ctx context.Context, triggeredBy, status string, duration time.Duration, newProducts, updatedProducts, errCount int) {
	sm.runs.Add(ctx, 1, metric.WithAttributes(AttrTriggeredBy.String(triggeredBy), AttrStatus.String(status)))
	sm.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(AttrStatus.String(status)))
	addPositive(ctx, sm.products, newProducts, AttrResult.String("new"))
	addPositive(ctx, sm.products, updatedProducts, AttrResult.String("updated"))
	addPositive(ctx, sm.runErrors, errCount, AttrTriggeredBy.String(triggeredBy))
}

// RecordRejected counts raw products dropped by normalization.
func (sm *SyncMetrics) RecordRejected(ctx context.Context, count int) {
	addPositive(ctx, sm.rejectedProducts, count)
}

// RecordStaleRuns counts runs the stale sweep marked failed.
func (sm *SyncMetrics) RecordStaleRuns(ctx context.Context, count int) {
	addPositive(ctx, sm.staleRuns, count)
}

// RecordCouponRun records a finished coupon sync.
func (sm *SyncMetrics) RecordCouponRun(ctx context.Context, status string, productsUpdated int) {
	sm.couponRuns.Add(ctx, 1, metric.WithAttributes(AttrStatus.String(status)))
	addPositive(ctx, sm.couponProducts, productsUpdated)
}

func addPositive(ctx context.Context, c metric.Int64Counter, n int, attrs ...attribute.KeyValue) {
	if n > 0 {
		c.Add(ctx, int64(n), metric.WithAttributes(attrs...))
	}
}
