package catalogsync

import (
	"time"

	"github.com/Yitzhakza/electic/internal/domain/catalog"
	"github.com/Yitzhakza/electic/internal/domain/integration"
)

var promoTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// couponFromPromo converts an inline promo code. A nil or code-less promo gives a zero coupon.
func couponFromPromo(p *integration.PromoCode) catalog.Coupon {
	if p == nil || p.Code == "" {
		return catalog.Coupon{}
	}
	return catalog.Coupon{
		Code:     optional(p.Code),
		Discount: optional(p.Discount),
		MinSpend: optional(p.MinSpend),
		Expiry:   parsePromoTime(p.EndDate),
	}
}

// parsePromoTime reads a marketplace promo timestamp, nil when unparsable
func parsePromoTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range promoTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
