package integration

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Marketplace Errors
// ---------------------------------------------------------------------------

var (
	ErrPlatformNotConfigured   = errors.New("integration: marketplace not configured")
	ErrPlatformUnavailable     = errors.New("integration: marketplace temporarily unavailable")
	ErrPlatformRequestFailed   = errors.New("integration: marketplace request failed")
	ErrPlatformInvalidResponse = errors.New("integration: invalid marketplace response")
	ErrPlatformRateLimited     = errors.New("integration: marketplace rate limited")
)

// ---------------------------------------------------------------------------
// Product shapes
// ---------------------------------------------------------------------------

// RawProduct is one product object as decoded from a marketplace response.
// Field names vary between endpoints, so it stays untyped until normalized.
type RawProduct map[string]any

// PromoCode is an inline coupon descriptor attached to a product
type PromoCode struct {
	Code      string
	Discount  string
	MinSpend  string
	StartDate string
	EndDate   string
}

// NormalizedProduct is the validated canonical form of a RawProduct.
// SalePrice is always positive and ProductID never empty.
type NormalizedProduct struct {
	ProductID      string           `validate:"required"`
	Title          string
	ProductURL     string           `validate:"required,url"`
	ImageURL       string           `validate:"required,url"`
	ImageURLs      []string         `validate:"dive,url"`
	SalePrice      decimal.Decimal
	Currency       string           `validate:"required"`
	OriginalPrice  *decimal.Decimal
	Discount       string
	EvaluateScore  string
	Orders         int              `validate:"min=0"`
	ShippingInfo   string
	ShopURL        string
	PromotionLink  string
	CommissionRate string
	PromoCode      *PromoCode
}

// Images returns the main image followed by the additional images, skipping empty entries
func (p *NormalizedProduct) Images() []string {
	out := make([]string, 0, len(p.ImageURLs)+1)
	if p.ImageURL != "" {
		out = append(out, p.ImageURL)
	}
	for _, u := range p.ImageURLs {
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}

// AffiliateLink is a tracked promotion URL for a product
type AffiliateLink struct {
	PromotionURL string
}

// FeaturedPromotion is a marketplace-wide promotion
type FeaturedPromotion struct {
	PromotionName string
	PromotionDesc string
	ProductCount  int
}

// Sort orders supported by product search
const (
	SortSalePriceAsc   = "SALE_PRICE_ASC"
	SortSalePriceDesc  = "SALE_PRICE_DESC"
	SortLastVolumeAsc  = "LAST_VOLUME_ASC"
	SortLastVolumeDesc = "LAST_VOLUME_DESC"
)

// SearchParams are the inputs of a product search. Zero values take defaults.
type SearchParams struct {
	Keywords      string
	CategoryID    string
	PageNo        int
	PageSize      int
	Sort          string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	ShipToCountry string
}

// ---------------------------------------------------------------------------
// Ports
// ---------------------------------------------------------------------------

// Marketplace is the affiliate marketplace port.
//
// Best-effort lookups return an ok flag instead of an error: a missing coupon
// or promotion list is a normal outcome, not a failure.
type Marketplace interface {
	SearchProducts(ctx context.Context, params SearchParams) ([]RawProduct, error)
	GetProductDetail(ctx context.Context, productID string) (RawProduct, bool, error)
	GenerateAffiliateLink(ctx context.Context, originalURL string) (AffiliateLink, bool, error)
	// GetProductCoupons never fails; ok is false when no coupon could be read
	GetProductCoupons(ctx context.Context, productID string) (code string, ok bool)
	// GetFeaturedPromotions never fails; an unreachable marketplace yields an empty list
	GetFeaturedPromotions(ctx context.Context) []FeaturedPromotion
	GetPromotionProducts(ctx context.Context, promotionName string, pageNo int) ([]RawProduct, error)
}

// Normalizer turns raw marketplace products into validated products.
// Rejected payloads return ok=false and never abort the caller's batch.
type Normalizer interface {
	Normalize(raw RawProduct) (*NormalizedProduct, bool)
}
