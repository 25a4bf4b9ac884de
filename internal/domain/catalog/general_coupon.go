package catalog

import (
	"fmt"
	"time"
)

var monthCodes = [12]string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

var hebrewMonths = [12]string{
	"ינואר", "פברואר", "מרץ", "אפריל", "מאי", "יוני",
	"יולי", "אוגוסט", "ספטמבר", "אוקטובר", "נובמבר", "דצמבר",
}

var couponTiers = [7]struct {
	discount int
	minSpend int
}{
	{2, 15}, {4, 29}, {6, 49}, {10, 79}, {20, 159}, {30, 249}, {45, 369},
}

// GeneralCoupon is one tier of the monthly marketplace coupon series.
type GeneralCoupon struct {
	Code     string `json:"code"`
	Discount int    `json:"discount"`
	MinSpend int    `json:"minSpend"`
	Tier     int    `json:"tier"`
}

// GeneralCouponSet is the coupon series of one month.
type GeneralCouponSet struct {
	Coupons     []GeneralCoupon `json:"coupons"`
	MonthNameHe string          `json:"monthNameHe"`
	MonthCode   string          `json:"monthCode"`
	ValidUntil  time.Time       `json:"validUntil"`
}

// GeneralCoupons returns the coupon series for the month containing now.
// Codes follow IL + month code + tier, e.g. ILFEB3.
func GeneralCoupons(now time.Time) GeneralCouponSet {
	m := int(now.Month()) - 1
	set := GeneralCouponSet{
		MonthNameHe: hebrewMonths[m],
		MonthCode:   monthCodes[m],
		ValidUntil:  time.Date(now.Year(), now.Month()+1, 0, 23, 59, 59, 0, now.Location()),
	}
	for i, t := range couponTiers {
		set.Coupons = append(set.Coupons, GeneralCoupon{
			Code:     fmt.Sprintf("IL%s%d", monthCodes[m], i+1),
			Discount: t.discount,
			MinSpend: t.minSpend,
			Tier:     i + 1,
		})
	}
	return set
}
