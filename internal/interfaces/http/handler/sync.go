package handler

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/Yitzhakza/electic/internal/application/catalog"
	"github.com/Yitzhakza/electic/internal/application/catalogsync"
	"github.com/Yitzhakza/electic/internal/domain/syncrun"
)

// SyncRunner starts catalog sync runs
type SyncRunner interface {
	RunSync(ctx context.Context, opts catalogsync.RunOptions) (uuid.UUID, error)
}

// CouponRunner refreshes platform and per-product coupons
type CouponRunner interface {
	Run(ctx context.Context) (catalogsync.CouponSyncResult, error)
}

// SyncHistory reads past sync runs
type SyncHistory interface {
	RecentRuns(ctx context.Context) ([]catalogapp.SyncRunResponse, error)
	RunDetail(ctx context.Context, id uuid.UUID) (*catalogapp.SyncRunDetailResponse, error)
}

// SyncHandler handles sync triggers and sync history
type SyncHandler struct {
	BaseHandler
	engine  SyncRunner
	coupons CouponRunner
	history SyncHistory
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(engine SyncRunner, coupons CouponRunner, history SyncHistory) *SyncHandler {
	return &SyncHandler{
		engine:  engine,
		coupons: coupons,
		history: history,
	}
}

// TriggerSyncRequest optionally narrows a manual sync to some queries
type TriggerSyncRequest struct {
	QueryIDs []uuid.UUID `json:"queryIds" binding:"omitempty,max=500"`
}

// SyncStartedResponse carries the id of the run a trigger created
type SyncStartedResponse struct {
	SyncRunID uuid.UUID `json:"syncRunId"`
}

// CronSync runs a scheduled sync. The run outlives a dropped connection.
func (h *SyncHandler) CronSync(c *gin.Context) {
	h.startSync(c, catalogsync.RunOptions{TriggeredBy: syncrun.TriggerCron})
}

// CronCouponSync refreshes coupons
func (h *SyncHandler) CronCouponSync(c *gin.Context) {
	result, err := h.coupons.Run(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// TriggerManual runs a sync started by an administrator. An empty body syncs
// every enabled query.
func (h *SyncHandler) TriggerManual(c *gin.Context) {
	var req TriggerSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BindError(c, err)
		return
	}
	h.startSync(c, catalogsync.RunOptions{TriggeredBy: syncrun.TriggerManual, QueryIDs: req.QueryIDs})
}

func (h *SyncHandler) startSync(c *gin.Context, opts catalogsync.RunOptions) {
	runID, err := h.engine.RunSync(context.WithoutCancel(c.Request.Context()), opts)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, SyncStartedResponse{SyncRunID: runID})
}

// ListRuns returns the most recent sync runs
func (h *SyncHandler) ListRuns(c *gin.Context) {
	runs, err := h.history.RecentRuns(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, runs)
}

// GetRun returns one run with its logs
func (h *SyncHandler) GetRun(c *gin.Context) {
	id, ok := h.pathID(c, "sync run")
	if !ok {
		return
	}
	detail, err := h.history.RunDetail(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}
