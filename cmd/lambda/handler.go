package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Yitzhakza/electic/internal/application/catalogsync"
	"github.com/Yitzhakza/electic/internal/domain/syncrun"
	"github.com/Yitzhakza/electic/internal/infrastructure/scheduler"
)

// Job names accepted in the invocation payload
const (
	JobSync       = "sync"
	JobCouponSync = "coupon-sync"
	JobStaleSweep = "sweep"
)

var errUnknownJob = errors.New("unknown job")

// Invocation is either an EventBridge scheduled event whose detail carries
// {"job": "..."} or a direct payload {"job": "..."}. An empty job means sync.
type Invocation struct {
	events.CloudWatchEvent
	Job string `json:"job,omitempty"`
}

// JobResult is returned to the invoker
type JobResult struct {
	Job             string `json:"job"`
	SyncRunID       string `json:"syncRunId,omitempty"`
	Skipped         bool   `json:"skipped,omitempty"`
	Promotions      int    `json:"promotions,omitempty"`
	ProductsUpdated int    `json:"productsUpdated,omitempty"`
	StaleRuns       int    `json:"staleRuns,omitempty"`
}

// Handler dispatches scheduled invocations to the sync components
type Handler struct {
	sync       scheduler.SyncRunner
	coupons    scheduler.CouponRunner
	sweeper    scheduler.StaleSweeper
	staleAfter time.Duration
	logger     *zap.Logger
}

// NewHandler creates a Handler
func NewHandler(sync scheduler.SyncRunner, coupons scheduler.CouponRunner, sweeper scheduler.StaleSweeper, staleAfter time.Duration, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		sync:       sync,
		coupons:    coupons,
		sweeper:    sweeper,
		staleAfter: staleAfter,
		logger:     logger,
	}
}

// Handle runs the requested job. A job already in progress is reported as
// skipped rather than failed so the scheduler does not retry it.
func (h *Handler) Handle(ctx context.Context, inv Invocation) (JobResult, error) {
	job, err := inv.job()
	if err != nil {
		return JobResult{}, err
	}
	result := JobResult{Job: job}
	h.logger.Info("Invocation received", zap.String("job", job), zap.String("source", inv.Source))

	switch job {
	case JobSync:
		id, err := h.sync.RunSync(ctx, catalogsync.RunOptions{TriggeredBy: syncrun.TriggerCron})
		if errors.Is(err, syncrun.ErrSyncInProgress) {
			result.Skipped = true
			return result, nil
		}
		if err != nil {
			return result, err
		}
		if id != uuid.Nil {
			result.SyncRunID = id.String()
		}

	case JobCouponSync:
		res, err := h.coupons.Run(ctx)
		if errors.Is(err, syncrun.ErrSyncInProgress) {
			result.Skipped = true
			return result, nil
		}
		if err != nil {
			return result, err
		}
		result.Promotions = res.Promotions
		result.ProductsUpdated = res.ProductsUpdated

	case JobStaleSweep:
		n, err := h.sweeper.SweepStaleRuns(ctx, h.staleAfter)
		if err != nil {
			return result, err
		}
		result.StaleRuns = n

	default:
		return result, fmt.Errorf("%w: %q", errUnknownJob, job)
	}

	h.logger.Info("Invocation finished", zap.Any("result", result))
	return result, nil
}

func (inv Invocation) job() (string, error) {
	if inv.Job != "" {
		return inv.Job, nil
	}
	if len(inv.Detail) > 0 && string(inv.Detail) != "null" {
		var detail struct {
			Job string `json:"job"`
		}
		if err := json.Unmarshal(inv.Detail, &detail); err != nil {
			return "", fmt.Errorf("decode event detail: %w", err)
		}
		if detail.Job != "" {
			return detail.Job, nil
		}
	}
	return JobSync, nil
}
