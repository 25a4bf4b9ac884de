package models

import (
	"time"

	"github.com/Yitzhakza/electic/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BrandModel is the persistence model for the Brand domain entity.
type BrandModel struct {
	ReferenceModel
	LogoURL *string `gorm:"column:logo_url;type:text"`
}

// TableName returns the table name for GORM
func (BrandModel) TableName() string {
	return "brands"
}

// ToDomain converts the persistence model to a domain Brand entity.
func (m *BrandModel) ToDomain() *catalog.Brand {
	return &catalog.Brand{
		ID:           m.ID,
		Slug:         m.Slug,
		NameHe:       m.NameHe,
		NameEn:       m.NameEn,
		LogoURL:      m.LogoURL,
		DisplayOrder: m.DisplayOrder,
		Enabled:      m.Enabled,
	}
}

// BrandModelFromDomain creates a new persistence model from a domain Brand entity.
func BrandModelFromDomain(b *catalog.Brand) *BrandModel {
	return &BrandModel{
		ReferenceModel: ReferenceModel{
			ID:           b.ID,
			Slug:         b.Slug,
			NameHe:       b.NameHe,
			NameEn:       b.NameEn,
			DisplayOrder: b.DisplayOrder,
			Enabled:      b.Enabled,
		},
		LogoURL: b.LogoURL,
	}
}

// AccessoryCategoryModel is the persistence model for the AccessoryCategory domain entity.
type AccessoryCategoryModel struct {
	ReferenceModel
	Keywords []string `gorm:"type:jsonb;serializer:json;not null"`
}

// TableName returns the table name for GORM
func (AccessoryCategoryModel) TableName() string {
	return "accessory_categories"
}

// ToDomain converts the persistence model to a domain AccessoryCategory entity.
func (m *AccessoryCategoryModel) ToDomain() *catalog.AccessoryCategory {
	return &catalog.AccessoryCategory{
		ID:           m.ID,
		Slug:         m.Slug,
		NameHe:       m.NameHe,
		NameEn:       m.NameEn,
		Keywords:     nonNilStrings(m.Keywords),
		DisplayOrder: m.DisplayOrder,
		Enabled:      m.Enabled,
	}
}

// AccessoryCategoryModelFromDomain creates a new persistence model from a domain entity.
func AccessoryCategoryModelFromDomain(c *catalog.AccessoryCategory) *AccessoryCategoryModel {
	return &AccessoryCategoryModel{
		ReferenceModel: ReferenceModel{
			ID:           c.ID,
			Slug:         c.Slug,
			NameHe:       c.NameHe,
			NameEn:       c.NameEn,
			DisplayOrder: c.DisplayOrder,
			Enabled:      c.Enabled,
		},
		Keywords: nonNilStrings(c.Keywords),
	}
}

// SearchQueryModel is the persistence model for the SearchQuery domain entity.
type SearchQueryModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BrandID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index"`
	QueryText  string     `gorm:"type:varchar(200);not null"`
	Enabled    bool       `gorm:"not null;index"`
	LastSyncAt *time.Time
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SearchQueryModel) TableName() string {
	return "search_queries"
}

// ToDomain converts the persistence model to a domain SearchQuery entity.
func (m *SearchQueryModel) ToDomain() *catalog.SearchQuery {
	return &catalog.SearchQuery{
		ID:         m.ID,
		BrandID:    m.BrandID,
		CategoryID: m.CategoryID,
		QueryText:  m.QueryText,
		Enabled:    m.Enabled,
		LastSyncAt: m.LastSyncAt,
		CreatedAt:  m.CreatedAt,
	}
}

// SearchQueryModelFromDomain creates a new persistence model from a domain SearchQuery entity.
func SearchQueryModelFromDomain(q *catalog.SearchQuery) *SearchQueryModel {
	return &SearchQueryModel{
		ID:         q.ID,
		BrandID:    q.BrandID,
		CategoryID: q.CategoryID,
		QueryText:  q.QueryText,
		Enabled:    q.Enabled,
		LastSyncAt: q.LastSyncAt,
		CreatedAt:  q.CreatedAt,
	}
}

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	ID                  uuid.UUID        `gorm:"type:uuid;primaryKey"`
	AliExpressProductID string           `gorm:"column:aliexpress_product_id;type:varchar(50);not null;uniqueIndex"`
	Slug                string           `gorm:"type:varchar(300);not null;uniqueIndex"`
	TitleOriginal       string           `gorm:"type:text;not null"`
	TitleHe             *string          `gorm:"type:text"`
	DescriptionHe       *string          `gorm:"type:text"`
	Images              []string         `gorm:"type:jsonb;serializer:json;not null"`
	Price               decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	Currency            string           `gorm:"type:varchar(3);not null"`
	OriginalPrice       *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Rating              *float64
	TotalOrders         int        `gorm:"not null"`
	ShippingInfo        *string    `gorm:"type:text"`
	OriginalURL         string     `gorm:"column:original_url;type:text;not null"`
	AffiliateURL        *string    `gorm:"column:affiliate_url;type:text"`
	CouponCode          *string    `gorm:"type:varchar(64)"`
	CouponDiscount      *string    `gorm:"type:varchar(100)"`
	CouponMinSpend      *string    `gorm:"type:varchar(100)"`
	CouponExpiry        *time.Time
	BrandID             *uuid.UUID `gorm:"type:uuid;index"`
	CategoryID          *uuid.UUID `gorm:"type:uuid;index"`
	BrandHints          []string   `gorm:"type:jsonb;serializer:json;not null"`
	CategoryHints       []string   `gorm:"type:jsonb;serializer:json;not null"`
	IsActive            bool       `gorm:"not null;index"`
	CreatedAt           time.Time  `gorm:"not null"`
	UpdatedAt           time.Time  `gorm:"not null;autoUpdateTime:false"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		ID:                  m.ID,
		AliExpressProductID: m.AliExpressProductID,
		Slug:                m.Slug,
		TitleOriginal:       m.TitleOriginal,
		TitleHe:             m.TitleHe,
		DescriptionHe:       m.DescriptionHe,
		Images:              nonNilStrings(m.Images),
		Price:               m.Price,
		Currency:            m.Currency,
		OriginalPrice:       m.OriginalPrice,
		Rating:              m.Rating,
		TotalOrders:         m.TotalOrders,
		ShippingInfo:        m.ShippingInfo,
		OriginalURL:         m.OriginalURL,
		AffiliateURL:        m.AffiliateURL,
		Coupon: catalog.Coupon{
			Code:     m.CouponCode,
			Discount: m.CouponDiscount,
			MinSpend: m.CouponMinSpend,
			Expiry:   m.CouponExpiry,
		},
		BrandID:       m.BrandID,
		CategoryID:    m.CategoryID,
		BrandHints:    nonNilStrings(m.BrandHints),
		CategoryHints: nonNilStrings(m.CategoryHints),
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.ID = p.ID
	m.AliExpressProductID = p.AliExpressProductID
	m.Slug = p.Slug
	m.TitleOriginal = p.TitleOriginal
	m.TitleHe = p.TitleHe
	m.DescriptionHe = p.DescriptionHe
	m.Images = nonNilStrings(p.Images)
	m.Price = p.Price
	m.Currency = p.Currency
	m.OriginalPrice = p.OriginalPrice
	m.Rating = p.Rating
	m.TotalOrders = p.TotalOrders
	m.ShippingInfo = p.ShippingInfo
	m.OriginalURL = p.OriginalURL
	m.AffiliateURL = p.AffiliateURL
	m.CouponCode = p.Coupon.Code
	m.CouponDiscount = p.Coupon.Discount
	m.CouponMinSpend = p.Coupon.MinSpend
	m.CouponExpiry = p.Coupon.Expiry
	m.BrandID = p.BrandID
	m.CategoryID = p.CategoryID
	m.BrandHints = nonNilStrings(p.BrandHints)
	m.CategoryHints = nonNilStrings(p.CategoryHints)
	m.IsActive = p.IsActive
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// ProductSyncColumns are the columns a sync pass overwrites on an existing
// product. Identity, slug, Hebrew content and creation time are left alone.
var ProductSyncColumns = []string{
	"title_original", "images", "price", "currency", "original_price", "rating",
	"total_orders", "shipping_info", "original_url", "affiliate_url",
	"coupon_code", "coupon_discount", "coupon_min_spend", "coupon_expiry",
	"brand_id", "category_id", "brand_hints", "category_hints",
	"is_active", "updated_at",
}

// ProductOverrideModel is the persistence model for the ProductOverride domain entity.
type ProductOverrideModel struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	TitleHeOverride       *string   `gorm:"type:text"`
	DescriptionHeOverride *string   `gorm:"type:text"`
	CouponOverride        *string   `gorm:"type:varchar(64)"`
	TagsOverride          []string  `gorm:"type:jsonb;serializer:json;not null"`
	IsHidden              bool      `gorm:"not null"`
	UpdatedAt             time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName returns the table name for GORM
func (ProductOverrideModel) TableName() string {
	return "product_overrides"
}

// ToDomain converts the persistence model to a domain ProductOverride entity.
func (m *ProductOverrideModel) ToDomain() *catalog.ProductOverride {
	return &catalog.ProductOverride{
		ID:                    m.ID,
		ProductID:             m.ProductID,
		TitleHeOverride:       m.TitleHeOverride,
		DescriptionHeOverride: m.DescriptionHeOverride,
		CouponOverride:        m.CouponOverride,
		TagsOverride:          nonNilStrings(m.TagsOverride),
		IsHidden:              m.IsHidden,
		UpdatedAt:             m.UpdatedAt,
	}
}

// ProductOverrideModelFromDomain creates a new persistence model from a domain entity.
func ProductOverrideModelFromDomain(o *catalog.ProductOverride) *ProductOverrideModel {
	return &ProductOverrideModel{
		ID:                    o.ID,
		ProductID:             o.ProductID,
		TitleHeOverride:       o.TitleHeOverride,
		DescriptionHeOverride: o.DescriptionHeOverride,
		CouponOverride:        o.CouponOverride,
		TagsOverride:          nonNilStrings(o.TagsOverride),
		IsHidden:              o.IsHidden,
		UpdatedAt:             o.UpdatedAt,
	}
}

// PlatformCouponModel is the persistence model for the PlatformCoupon domain entity.
type PlatformCouponModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	PromoName     string    `gorm:"type:varchar(200);not null;index"`
	PromoNameHe   *string   `gorm:"type:varchar(200)"`
	CouponCode    *string   `gorm:"type:varchar(64)"`
	DiscountValue *string   `gorm:"type:varchar(100)"`
	MinSpend      *string   `gorm:"type:varchar(100)"`
	StartDate     *time.Time
	EndDate       *time.Time
	PromotionURL  *string `gorm:"column:promotion_url;type:text"`
	IsActive      bool    `gorm:"not null;index"`
	LastSyncAt    *time.Time
	CreatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PlatformCouponModel) TableName() string {
	return "platform_coupons"
}

// ToDomain converts the persistence model to a domain PlatformCoupon entity.
func (m *PlatformCouponModel) ToDomain() *catalog.PlatformCoupon {
	return &catalog.PlatformCoupon{
		ID:            m.ID,
		PromoName:     m.PromoName,
		PromoNameHe:   m.PromoNameHe,
		CouponCode:    m.CouponCode,
		DiscountValue: m.DiscountValue,
		MinSpend:      m.MinSpend,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		PromotionURL:  m.PromotionURL,
		IsActive:      m.IsActive,
		LastSyncAt:    m.LastSyncAt,
		CreatedAt:     m.CreatedAt,
	}
}

// PlatformCouponModelFromDomain creates a new persistence model from a domain entity.
func PlatformCouponModelFromDomain(c *catalog.PlatformCoupon) *PlatformCouponModel {
	return &PlatformCouponModel{
		ID:            c.ID,
		PromoName:     c.PromoName,
		PromoNameHe:   c.PromoNameHe,
		CouponCode:    c.CouponCode,
		DiscountValue: c.DiscountValue,
		MinSpend:      c.MinSpend,
		StartDate:     c.StartDate,
		EndDate:       c.EndDate,
		PromotionURL:  c.PromotionURL,
		IsActive:      c.IsActive,
		LastSyncAt:    c.LastSyncAt,
		CreatedAt:     c.CreatedAt,
	}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
