package persistence

import (
	"context"
	"errors"

	"github.com/Yitzhakza/electic/internal/domain/catalog"
	"github.com/Yitzhakza/electic/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPlatformCouponRepository implements catalog.PlatformCouponRepository using GORM
type GormPlatformCouponRepository struct {
	db *gorm.DB
}

// NewGormPlatformCouponRepository creates a new GormPlatformCouponRepository
func NewGormPlatformCouponRepository(db *gorm.DB) *GormPlatformCouponRepository {
	return &GormPlatformCouponRepository{db: db}
}

// DeactivateAll flags every platform coupon inactive
func (r *GormPlatformCouponRepository) DeactivateAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&models.PlatformCouponModel{}).
		Where("is_active = ?", true).
		Update("is_active", false).Error
}

// FindByPromoName finds the most recent coupon row for a promotion
func (r *GormPlatformCouponRepository) FindByPromoName(ctx context.Context, name string) (*catalog.PlatformCoupon, error) {
	var m models.PlatformCouponModel
	if err := r.db.WithContext(ctx).
		Where("promo_name = ?", name).
		Order("created_at DESC").
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrCouponNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// Save creates or updates a platform coupon
func (r *GormPlatformCouponRepository) Save(ctx context.Context, coupon *catalog.PlatformCoupon) error {
	return r.db.WithContext(ctx).Save(models.PlatformCouponModelFromDomain(coupon)).Error
}

// FindActive returns active coupons, newest first
func (r *GormPlatformCouponRepository) FindActive(ctx context.Context) ([]catalog.PlatformCoupon, error) {
	var rows []models.PlatformCouponModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC, promo_name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	coupons := make([]catalog.PlatformCoupon, len(rows))
	for i := range rows {
		coupons[i] = *rows[i].ToDomain()
	}
	return coupons, nil
}

// Ensure GormPlatformCouponRepository implements PlatformCouponRepository
var _ catalog.PlatformCouponRepository = (*GormPlatformCouponRepository)(nil)
