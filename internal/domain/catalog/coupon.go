package catalog

import (
	"time"

	"github.com/google/uuid"
)

// PlatformCoupon is a snapshot of a marketplace-wide promotion. The coupon sync
// deactivates every row and then re-activates or inserts by promotion name.
type PlatformCoupon struct {
	ID            uuid.UUID
	PromoName     string
	PromoNameHe   *string
	CouponCode    *string
	DiscountValue *string
	MinSpend      *string
	StartDate     *time.Time
	EndDate       *time.Time
	PromotionURL  *string
	IsActive      bool
	LastSyncAt    *time.Time
	CreatedAt     time.Time
}

// NewPlatformCoupon creates an active coupon for a promotion
func NewPlatformCoupon(promoName string, now time.Time) (*PlatformCoupon, error) {
	if promoName == "" {
		return nil, ErrPromotionNameEmpty
	}
	return &PlatformCoupon{
		ID:         uuid.New(),
		PromoName:  promoName,
		IsActive:   true,
		LastSyncAt: &now,
		CreatedAt:  now,
	}, nil
}

// Refresh reactivates the coupon with the latest localized name
func (c *PlatformCoupon) Refresh(nameHe string, now time.Time) {
	c.PromoNameHe = &nameHe
	c.IsActive = true
	c.LastSyncAt = &now
}

var promoNamesHe = map[string]string{
	"Super Deals":    "סופר דילים",
	"Hot Products":   "מוצרים חמים",
	"Hot Product":    "מוצרים חמים",
	"New User Deals": "דילים למשתמשים חדשים",
	"Brand Sale":     "מבצעי מותגים",
	"Best Seller":    "רבי מכר",
	"Weekly Deals":   "דילים שבועיים",
	"weeklydeals":    "דילים שבועיים",
	"New Arrival":    "חדשים",
}

// LocalizePromoName returns the Hebrew display name of a promotion, or the
// raw name when no translation is known.
func LocalizePromoName(name string) string {
	if he, ok := promoNamesHe[name]; ok {
		return he
	}
	return name
}
