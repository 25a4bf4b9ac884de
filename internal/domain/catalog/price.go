package catalog

import (
	"math"
	"regexp"

	"github.com/shopspring/decimal"
)

// ILSExchangeRate is the approximate USD to ILS rate used for display estimates.
var ILSExchangeRate = decimal.NewFromFloat(3.7)

var nonPriceChars = regexp.MustCompile(`[^\d.]`)

// FormatPrice renders a price with its currency symbol
func FormatPrice(price decimal.Decimal, currency string) string {
	if currency == "ILS" {
		return "₪" + price.StringFixed(2)
	}
	return "$" + price.StringFixed(2)
}

// USDToILS converts a USD amount to an ILS estimate rounded to agorot
func USDToILS(usd decimal.Decimal) decimal.Decimal {
	return usd.Mul(ILSExchangeRate).Round(2)
}

// CalcDiscount returns the whole-number discount percentage of salePrice
// relative to originalPrice. It is never negative.
func CalcDiscount(originalPrice, salePrice float64) int {
	if originalPrice <= 0 || salePrice >= originalPrice {
		return 0
	}
	return int(math.Floor((originalPrice-salePrice)/originalPrice*100 + 0.5))
}

// NormalizePrice parses a loosely formatted price (number or string such as
// "US $12.50") and rounds it to two decimals. Unparsable input yields zero.
func NormalizePrice(value any) decimal.Decimal {
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v).Round(2)
	case int:
		return decimal.NewFromInt(int64(v))
	case decimal.Decimal:
		return v.Round(2)
	case string:
		d, ok := ParseDecimal(v)
		if !ok {
			return decimal.Zero
		}
		return d.Round(2)
	}
	return decimal.Zero
}

// ParseDecimal strips everything but digits and dots and parses the leading
// number, the way a lenient float parser would.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	cleaned := nonPriceChars.ReplaceAllString(s, "")
	// a second dot ends the number: "1.2.3" parses as 1.2
	end := len(cleaned)
	dots := 0
	for i, r := range cleaned {
		if r == '.' {
			dots++
			if dots == 2 {
				end = i
				break
			}
		}
	}
	cleaned = cleaned[:end]
	if cleaned == "" || cleaned == "." {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
