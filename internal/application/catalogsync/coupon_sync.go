package catalogsync

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Yitzhakza/electic/internal/domain/catalog"
	"github.com/Yitzhakza/electic/internal/domain/integration"
	"github.com/Yitzhakza/electic/internal/domain/shared"
	"github.com/Yitzhakza/electic/internal/domain/syncrun"
	"github.com/Yitzhakza/electic/internal/infrastructure/telemetry"
)

// CouponSyncLockKey is the lock key held while coupons refresh
const CouponSyncLockKey = "coupon-sync"

// CouponSyncResult summarizes one coupon refresh
type CouponSyncResult struct {
	Promotions      int `json:"promotions"`
	ProductsUpdated int `json:"productsUpdated"`
}

// CouponSync refreshes platform promotions and per-product coupons.
//
// The two phases are independent and best effort: a failure in one is
// logged and the other still runs. No run record is kept.
type CouponSync struct {
	marketplace integration.Marketplace
	normalizer  integration.Normalizer
	products    catalog.ProductRepository
	coupons     catalog.PlatformCouponRepository

	locker  shared.Locker
	lockTTL time.Duration
	metrics Recorder
	logger  *zap.Logger
	now     func() time.Time
}

// NewCouponSync creates a coupon sync. locker and metrics may be nil.
func NewCouponSync(
	marketplace integration.Marketplace,
	normalizer integration.Normalizer,
	products catalog.ProductRepository,
	coupons catalog.PlatformCouponRepository,
	locker shared.Locker,
	metrics Recorder,
	logger *zap.Logger,
) *CouponSync {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CouponSync{
		marketplace: marketplace,
		normalizer:  normalizer,
		products:    products,
		coupons:     coupons,
		locker:      locker,
		lockTTL:     10 * time.Minute,
		metrics:     metrics,
		logger:      logger.Named("coupon-sync"),
		now:         time.Now,
	}
}

// Run refreshes promotions, then product coupons. It fails only when another
// coupon sync holds the lock.
func (s *CouponSync) Run(ctx context.Context) (CouponSyncResult, error) {
	var result CouponSyncResult

	if s.locker != nil {
		token, ok, err := s.locker.TryAcquire(ctx, CouponSyncLockKey, s.lockTTL)
		if err != nil {
			return result, err
		}
		if !ok {
			return result, syncrun.ErrSyncInProgress
		}
		defer func() {
			if err := s.locker.Release(context.WithoutCancel(ctx), CouponSyncLockKey, token); err != nil {
				s.logger.Warn("Failed to release coupon sync lock", zap.Error(err))
			}
		}()
	}

	ctx, span := telemetry.StartSpan(ctx, "sync.coupons")

	status := "success"
	promotions, err := s.refreshPromotions(ctx)
	if err != nil {
		status = "partial"
		s.logger.Error("Failed to refresh promotions", zap.Error(err))
	} else {
		s.logger.Info("Synced promotions", zap.Int("count", promotions))
	}
	result.Promotions = promotions

	updated, err := s.refreshProductCoupons(ctx)
	if err != nil {
		status = "partial"
		s.logger.Error("Failed to refresh product coupons", zap.Error(err))
	} else {
		s.logger.Info("Updated product coupons", zap.Int("count", updated))
	}
	result.ProductsUpdated = updated

	s.metrics.RecordCouponRun(ctx, status, updated)
	span.SetAttributes(telemetry.Promotions(promotions), telemetry.ProductsUpdated(updated))
	telemetry.EndSpan(span, nil)
	return result, nil
}

// refreshPromotions deactivates every platform coupon, then reactivates or
// inserts one per featured promotion.
func (s *CouponSync) refreshPromotions(ctx context.Context) (int, error) {
	promos := s.marketplace.GetFeaturedPromotions(ctx)

	if err := s.coupons.DeactivateAll(ctx); err != nil {
		return 0, err
	}

	count := 0
	for _, promo := range promos {
		now := s.now()
		nameHe := catalog.LocalizePromoName(promo.PromotionName)

		coupon, err := s.coupons.FindByPromoName(ctx, promo.PromotionName)
		switch {
		case err == nil:
			coupon.Refresh(nameHe, now)
		case errors.Is(err, catalog.ErrCouponNotFound):
			coupon, err = catalog.NewPlatformCoupon(promo.PromotionName, now)
			if err != nil {
				s.logger.Warn("Skipping promotion", zap.Error(err))
				continue
			}
			coupon.Refresh(nameHe, now)
		default:
			return count, err
		}

		if err := s.coupons.Save(ctx, coupon); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// refreshProductCoupons re-reads every product that has a coupon. A product
// whose fresh detail carries no promo code has its coupon cleared.
func (s *CouponSync) refreshProductCoupons(ctx context.Context) (int, error) {
	products, err := s.products.FindWithCoupon(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Refreshing coupons", zap.Int("products", len(products)))

	updated := 0
	for _, p := range products {
		raw, ok, err := s.marketplace.GetProductDetail(ctx, p.AliExpressProductID)
		if err != nil || !ok {
			s.logger.Debug("Product detail unavailable",
				zap.String("product_id", p.AliExpressProductID),
				zap.Error(err),
			)
			continue
		}

		var coupon catalog.Coupon
		if normalized, ok := s.normalizer.Normalize(raw); ok {
			coupon = couponFromPromo(normalized.PromoCode)
		}

		if err := s.products.UpdateCoupon(ctx, p.ID, coupon, s.now()); err != nil {
			s.logger.Warn("Failed to update product coupon",
				zap.String("product_id", p.AliExpressProductID),
				zap.Error(err),
			)
			continue
		}
		if !coupon.IsZero() {
			updated++
		}
	}
	return updated, nil
}
