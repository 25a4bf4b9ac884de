package catalog

import (
	"context"
	"time"

	"github.com/Yitzhakza/electic/internal/domain/catalog"
	"github.com/Yitzhakza/electic/internal/domain/syncrun"
	"github.com/google/uuid"
)

// RecentRunsLimit is how many runs the history shows
const RecentRunsLimit = 20

// SyncHistoryService reads sync run history and the storefront coupon lists
type SyncHistoryService struct {
	runRepo    syncrun.Repository
	logRepo    syncrun.LogRepository
	couponRepo catalog.PlatformCouponRepository
	now        func() time.Time
}

// NewSyncHistoryService creates a new SyncHistoryService
func NewSyncHistoryService(
	runRepo syncrun.Repository,
	logRepo syncrun.LogRepository,
	couponRepo catalog.PlatformCouponRepository,
) *SyncHistoryService {
	return &SyncHistoryService{
		runRepo:    runRepo,
		logRepo:    logRepo,
		couponRepo: couponRepo,
		now:        time.Now,
	}
}

// RecentRuns returns the latest runs, newest first
func (s *SyncHistoryService) RecentRuns(ctx context.Context) ([]SyncRunResponse, error) {
	runs, err := s.runRepo.FindRecent(ctx, RecentRunsLimit)
	if err != nil {
		return nil, err
	}
	out := make([]SyncRunResponse, len(runs))
	for i := range runs {
		out[i] = ToSyncRunResponse(&runs[i])
	}
	return out, nil
}

// RunDetail returns a run with its logs, newest first
func (s *SyncHistoryService) RunDetail(ctx context.Context, id uuid.UUID) (*SyncRunDetailResponse, error) {
	run, err := s.runRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	logs, err := s.logRepo.FindByRun(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &SyncRunDetailResponse{
		Run:  ToSyncRunResponse(run),
		Logs: make([]SyncLogResponse, len(logs)),
	}
	for i, l := range logs {
		detail.Logs[i] = SyncLogResponse{
			ID:        l.ID,
			QueryID:   l.QueryID,
			Level:     string(l.Level),
			Message:   l.Message,
			Data:      l.Data,
			CreatedAt: l.CreatedAt,
		}
	}
	return detail, nil
}

// Coupons returns the active platform coupons and this month's general coupon series
func (s *SyncHistoryService) Coupons(ctx context.Context) (*CouponsResponse, error) {
	active, err := s.couponRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	resp := &CouponsResponse{
		Platform: make([]CouponResponse, len(active)),
		General:  catalog.GeneralCoupons(s.now()),
	}
	for i, c := range active {
		resp.Platform[i] = CouponResponse{
			ID:            c.ID,
			PromoName:     c.PromoName,
			PromoNameHe:   c.PromoNameHe,
			CouponCode:    c.CouponCode,
			DiscountValue: c.DiscountValue,
			MinSpend:      c.MinSpend,
			StartDate:     c.StartDate,
			EndDate:       c.EndDate,
			PromotionURL:  c.PromotionURL,
		}
	}
	return resp, nil
}
