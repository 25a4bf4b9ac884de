package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the catalog entity synced from the marketplace.
// AliExpressProductID is the natural key: exactly one row exists per external id.
type Product struct {
	ID                  uuid.UUID
	AliExpressProductID string
	Slug                string
	TitleOriginal       string
	TitleHe             *string
	DescriptionHe       *string
	Images              []string
	Price               decimal.Decimal
	Currency            string
	OriginalPrice       *decimal.Decimal
	Rating              *float64
	TotalOrders         int
	ShippingInfo        *string
	OriginalURL         string
	AffiliateURL        *string
	Coupon              Coupon
	BrandID             *uuid.UUID
	CategoryID          *uuid.UUID
	BrandHints          []string
	CategoryHints       []string
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Coupon holds the per-product coupon fields. All are optional.
type Coupon struct {
	Code     *string
	Discount *string
	MinSpend *string
	Expiry   *time.Time
}

// IsZero reports whether the coupon carries no data
func (c Coupon) IsZero() bool {
	return c.Code == nil && c.Discount == nil && c.MinSpend == nil && c.Expiry == nil
}

// ProductSnapshot is the mutable state observed for a product in one sync pass.
// Applying it overwrites every mutable field but never id, slug or creation time.
type ProductSnapshot struct {
	AliExpressProductID string
	TitleOriginal       string
	Images              []string
	Price               decimal.Decimal
	Currency            string
	OriginalPrice       *decimal.Decimal
	Rating              *float64
	TotalOrders         int
	ShippingInfo        *string
	OriginalURL         string
	AffiliateURL        *string
	Coupon              Coupon
	BrandID             *uuid.UUID
	CategoryID          *uuid.UUID
	BrandHints          []string
	CategoryHints       []string
}

// NewProductFromSnapshot creates an active product with its slug derived from
// the title and external id.
func NewProductFromSnapshot(s ProductSnapshot, now time.Time) (*Product, error) {
	if s.AliExpressProductID == "" {
		return nil, ErrInvalidExternalID
	}
	if !s.Price.IsPositive() {
		return nil, ErrInvalidProductPrice
	}
	p := &Product{
		ID:                  uuid.New(),
		AliExpressProductID: s.AliExpressProductID,
		Slug:                GenerateProductSlug(s.TitleOriginal, s.AliExpressProductID),
		CreatedAt:           now,
	}
	p.Apply(s, now)
	return p, nil
}

// Apply overwrites the mutable fields with a fresh observation and reactivates the product.
func (p *Product) Apply(s ProductSnapshot, now time.Time) {
	p.TitleOriginal = s.TitleOriginal
	p.Images = nonNil(s.Images)
	p.Price = s.Price
	p.Currency = s.Currency
	p.OriginalPrice = s.OriginalPrice
	p.Rating = s.Rating
	p.TotalOrders = s.TotalOrders
	p.ShippingInfo = s.ShippingInfo
	p.OriginalURL = s.OriginalURL
	p.AffiliateURL = s.AffiliateURL
	p.Coupon = s.Coupon
	p.BrandID = s.BrandID
	p.CategoryID = s.CategoryID
	p.BrandHints = nonNil(s.BrandHints)
	p.CategoryHints = nonNil(s.CategoryHints)
	p.IsActive = true
	p.UpdatedAt = now
}

// ApplyCoupon replaces the coupon fields
func (p *Product) ApplyCoupon(c Coupon, now time.Time) {
	p.Coupon = c
	p.UpdatedAt = now
}

// ClearCoupon drops all coupon fields, used when the upstream promo expired
func (p *Product) ClearCoupon(now time.Time) {
	p.ApplyCoupon(Coupon{}, now)
}

// Deactivate hides the product from the storefront without deleting it
func (p *Product) Deactivate(now time.Time) {
	p.IsActive = false
	p.UpdatedAt = now
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ProductOverride is a sparse admin patch keyed 1:1 on product id.
// Set fields win over synced data when rendering.
type ProductOverride struct {
	ID                    uuid.UUID
	ProductID             uuid.UUID
	TitleHeOverride       *string
	DescriptionHeOverride *string
	CouponOverride        *string
	TagsOverride          []string
	IsHidden              bool
	UpdatedAt             time.Time
}

// OverridePatch carries the fields an admin sends. Nil pointers leave the field untouched.
type OverridePatch struct {
	TitleHeOverride       *string
	DescriptionHeOverride *string
	CouponOverride        *string
	TagsOverride          []string
	IsHidden              *bool
}

// NewProductOverride creates an empty override for a product
func NewProductOverride(productID uuid.UUID) *ProductOverride {
	return &ProductOverride{
		ID:           uuid.New(),
		ProductID:    productID,
		TagsOverride: []string{},
		UpdatedAt:    time.Now(),
	}
}

// ApplyPatch merges the patch into the override
func (o *ProductOverride) ApplyPatch(p OverridePatch, now time.Time) error {
	if p.CouponOverride != nil && len(*p.CouponOverride) > 64 {
		return ErrCouponOverrideLong
	}
	if p.TitleHeOverride != nil {
		o.TitleHeOverride = p.TitleHeOverride
	}
	if p.DescriptionHeOverride != nil {
		o.DescriptionHeOverride = p.DescriptionHeOverride
	}
	if p.CouponOverride != nil {
		o.CouponOverride = p.CouponOverride
	}
	if p.TagsOverride != nil {
		o.TagsOverride = p.TagsOverride
	}
	if p.IsHidden != nil {
		o.IsHidden = *p.IsHidden
	}
	o.UpdatedAt = now
	return nil
}

// ProductDisplay is a product as shown on the storefront, with overrides applied.
type ProductDisplay struct {
	ID            uuid.UUID        `json:"id"`
	Slug          string           `json:"slug"`
	Title         string           `json:"title"`
	Description   *string          `json:"description"`
	Images        []string         `json:"images"`
	Price         decimal.Decimal  `json:"price"`
	Currency      string           `json:"currency"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Rating        *float64         `json:"rating"`
	TotalOrders   int              `json:"totalOrders"`
	ShippingInfo  *string          `json:"shippingInfo"`
	AffiliateURL  *string          `json:"affiliateUrl"`
	CouponCode    *string          `json:"couponCode"`
	BrandSlug     *string          `json:"brandSlug"`
	BrandName     *string          `json:"brandName"`
	CategorySlug  *string          `json:"categorySlug"`
	CategoryName  *string          `json:"categoryName"`
}

// BuildDisplay merges a product with its optional override.
func BuildDisplay(p *Product, o *ProductOverride) ProductDisplay {
	d := ProductDisplay{
		ID:            p.ID,
		Slug:          p.Slug,
		Title:         p.TitleOriginal,
		Description:   p.DescriptionHe,
		Images:        nonNil(p.Images),
		Price:         p.Price,
		Currency:      p.Currency,
		OriginalPrice: p.OriginalPrice,
		Rating:        p.Rating,
		TotalOrders:   p.TotalOrders,
		ShippingInfo:  p.ShippingInfo,
		AffiliateURL:  p.AffiliateURL,
		CouponCode:    p.Coupon.Code,
	}
	if p.TitleHe != nil {
		d.Title = *p.TitleHe
	}
	if o == nil {
		return d
	}
	if o.TitleHeOverride != nil {
		d.Title = *o.TitleHeOverride
	}
	if o.DescriptionHeOverride != nil {
		d.Description = o.DescriptionHeOverride
	}
	if o.CouponOverride != nil {
		d.CouponCode = o.CouponOverride
	}
	return d
}
