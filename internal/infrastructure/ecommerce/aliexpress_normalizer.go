package ecommerce

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Yitzhakza/electic/internal/domain/catalog"
	"github.com/Yitzhakza/electic/internal/domain/integration"
)

// Field aliases in priority order. Search, detail and promotion endpoints
// name the same fields differently.
var (
	productIDKeys     = []string{"product_id", "productId", "item_id"}
	titleKeys         = []string{"product_title", "title", "product_name"}
	productURLKeys    = []string{"product_detail_url", "product_url", "productUrl"}
	imageURLKeys      = []string{"product_main_image_url", "imageUrl", "image_url"}
	imageListKeys     = []string{"product_small_image_urls", "imageUrls", "image_urls"}
	salePriceKeys     = []string{"target_sale_price", "app_sale_price", "sale_price", "salePrice"}
	currencyKeys      = []string{"target_sale_price_currency", "sale_price_currency", "currency"}
	originalPriceKeys = []string{"target_original_price", "original_price", "originalPrice"}
	evaluateKeys      = []string{"evaluate_rate", "evaluateScore", "evaluate_score"}
	ordersKeys        = []string{"lastest_volume", "orders", "total_orders"}
)

var nonDigits = regexp.MustCompile(`\D`)

// AliExpressNormalizer maps raw AliExpress products onto
// integration.NormalizedProduct and validates the result.
type AliExpressNormalizer struct {
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAliExpressNormalizer creates a normalizer
func NewAliExpressNormalizer(logger *zap.Logger) *AliExpressNormalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := validator.New()
	v.RegisterStructValidation(validatePrices, integration.NormalizedProduct{})
	return &AliExpressNormalizer{validate: v, logger: logger}
}

// Normalize returns the canonical product, or ok=false when the payload is
// unusable. It never panics.
func (n *AliExpressNormalizer) Normalize(raw integration.RawProduct) (product *integration.NormalizedProduct, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("Error normalizing product", zap.Any("panic", r))
			product, ok = nil, false
		}
	}()

	p := &integration.NormalizedProduct{
		ProductID:      stringValue(first(raw, productIDKeys)),
		Title:          stringValue(first(raw, titleKeys)),
		ProductURL:     stringValue(first(raw, productURLKeys)),
		ImageURL:       stringValue(first(raw, imageURLKeys)),
		ImageURLs:      imageList(first(raw, imageListKeys)),
		SalePrice:      priceValue(first(raw, salePriceKeys)),
		Currency:       "USD",
		Orders:         ordersValue(first(raw, ordersKeys)),
		Discount:       truthyString(raw["discount"]),
		EvaluateScore:  truthyString(first(raw, evaluateKeys)),
		ShopURL:        truthyString(raw["shop_url"]),
		PromotionLink:  truthyString(raw["promotion_link"]),
		CommissionRate: truthyString(raw["commission_rate"]),
		PromoCode:      promoCode(raw["promo_code_info"]),
	}
	if c := first(raw, currencyKeys); c != nil {
		p.Currency = stringValue(c)
	}
	if v := first(raw, originalPriceKeys); v != nil {
		if price := priceValue(v); price.IsPositive() {
			p.OriginalPrice = &price
		}
	}
	if days := truthyString(raw["ship_to_days"]); days != "" {
		p.ShippingInfo = days + " days"
	}

	if err := n.validate.Struct(p); err != nil {
		n.logger.Warn("Failed to parse product",
			zap.String("product_id", p.ProductID),
			zap.Strings("issues", validationIssues(err)),
		)
		return nil, false
	}
	return p, true
}

func validatePrices(sl validator.StructLevel) {
	p := sl.Current().Interface().(integration.NormalizedProduct)
	if !p.SalePrice.IsPositive() {
		sl.ReportError(p.SalePrice, "SalePrice", "SalePrice", "positive", "")
	}
	if p.OriginalPrice != nil && !p.OriginalPrice.IsPositive() {
		sl.ReportError(p.OriginalPrice, "OriginalPrice", "OriginalPrice", "positive", "")
	}
}

func validationIssues(err error) []string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	issues := make([]string, 0, len(errs))
	for _, e := range errs {
		issues = append(issues, fmt.Sprintf("%s: %s", e.Namespace(), e.Tag()))
	}
	return issues
}

// ---------------------------------------------------------------------------
// Field coercion
// ---------------------------------------------------------------------------

// first returns the first alias whose value is present and not null
func first(raw integration.RawProduct, keys []string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// truthy treats nil, "", 0 and false as absent
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0 && !math.IsNaN(t)
	case int:
		return t != 0
	case bool:
		return t
	}
	return true
}

func truthyString(v any) string {
	if !truthy(v) {
		return ""
	}
	return stringValue(v)
}

// priceValue keeps a JSON number at full precision and reads a string
// leniently ("US $12.50" -> 12.50, rounded to cents). Anything else is zero.
func priceValue(v any) decimal.Decimal {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case float64, int, string:
		return catalog.NormalizePrice(t)
	}
	return decimal.Zero
}

// ordersValue floors numbers and reads the digits of strings
func ordersValue(v any) int {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		return int(math.Floor(f))
	case float64:
		return int(math.Floor(t))
	case int:
		return t
	case string:
		n, err := strconv.Atoi(nonDigits.ReplaceAllString(t, ""))
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// imageList accepts a flat list or the {"string": [...]} wrapper and keeps
// only http(s) entries
func imageList(v any) []string {
	if m, ok := v.(map[string]any); ok {
		v = m["string"]
	}
	arr, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		s := stringValue(item)
		if strings.HasPrefix(s, "http") {
			out = append(out, s)
		}
	}
	return out
}

func promoCode(v any) *integration.PromoCode {
	info, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	code := stringValue(firstOf(info, "promo_code", "code"))
	if code == "" {
		return nil
	}
	return &integration.PromoCode{
		Code:      code,
		Discount:  stringValue(firstOf(info, "code_value", "discount")),
		MinSpend:  stringValue(info["code_mini_spend"]),
		StartDate: stringValue(info["code_availabletime_start"]),
		EndDate:   stringValue(info["code_availabletime_end"]),
	}
}

func firstOf(m map[string]any, keys ...string) any {
	return first(integration.RawProduct(m), keys)
}

var _ integration.Normalizer = (*AliExpressNormalizer)(nil)
