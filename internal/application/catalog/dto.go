package catalog

import (
	"time"

	"github.com/Yitzhakza/electic/internal/domain/catalog"
	"github.com/Yitzhakza/electic/internal/domain/syncrun"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateQueryRequest represents a request to create a search query
type CreateQueryRequest struct {
	BrandID    uuid.UUID  `json:"brandId" binding:"required"`
	CategoryID *uuid.UUID `json:"categoryId"`
	QueryText  string     `json:"queryText" binding:"required,min=2,max=200"`
}

// UpdateQueryRequest represents a request to update a search query
type UpdateQueryRequest struct {
	QueryText *string `json:"queryText" binding:"omitempty,min=2,max=200"`
	Enabled   *bool   `json:"enabled"`
}

// QueryResponse represents a search query in API responses
type QueryResponse struct {
	ID           uuid.UUID  `json:"id"`
	BrandID      uuid.UUID  `json:"brandId"`
	BrandName    *string    `json:"brandName"`
	CategoryID   *uuid.UUID `json:"categoryId"`
	CategoryName *string    `json:"categoryName"`
	QueryText    string     `json:"queryText"`
	Enabled      bool       `json:"enabled"`
	LastSyncAt   *time.Time `json:"lastSyncAt"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ToQueryResponse converts a query view to a response
func ToQueryResponse(v catalog.SearchQueryView) QueryResponse {
	return QueryResponse{
		ID:           v.ID,
		BrandID:      v.BrandID,
		BrandName:    v.BrandName,
		CategoryID:   v.CategoryID,
		CategoryName: v.CategoryName,
		QueryText:    v.QueryText,
		Enabled:      v.Enabled,
		LastSyncAt:   v.LastSyncAt,
		CreatedAt:    v.CreatedAt,
	}
}

// OverrideRequest represents an admin patch of a product's display fields.
// Omitted fields are left as they are.
type OverrideRequest struct {
	TitleHeOverride       *string  `json:"titleHeOverride" binding:"omitempty,max=500"`
	DescriptionHeOverride *string  `json:"descriptionHeOverride" binding:"omitempty,max=5000"`
	CouponOverride        *string  `json:"couponOverride" binding:"omitempty,max=64"`
	TagsOverride          []string `json:"tagsOverride" binding:"omitempty,max=20,dive,max=50"`
	IsHidden              *bool    `json:"isHidden"`
}

func (r OverrideRequest) patch() catalog.OverridePatch {
	return catalog.OverridePatch{
		TitleHeOverride:       r.TitleHeOverride,
		DescriptionHeOverride: r.DescriptionHeOverride,
		CouponOverride:        r.CouponOverride,
		TagsOverride:          r.TagsOverride,
		IsHidden:              r.IsHidden,
	}
}

// OverrideResponse represents a product override in API responses
type OverrideResponse struct {
	ID                    uuid.UUID `json:"id"`
	ProductID             uuid.UUID `json:"productId"`
	TitleHeOverride       *string   `json:"titleHeOverride"`
	DescriptionHeOverride *string   `json:"descriptionHeOverride"`
	CouponOverride        *string   `json:"couponOverride"`
	TagsOverride          []string  `json:"tagsOverride"`
	IsHidden              bool      `json:"isHidden"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// ToOverrideResponse converts an override to a response
func ToOverrideResponse(o *catalog.ProductOverride) *OverrideResponse {
	if o == nil {
		return nil
	}
	tags := o.TagsOverride
	if tags == nil {
		tags = []string{}
	}
	return &OverrideResponse{
		ID:                    o.ID,
		ProductID:             o.ProductID,
		TitleHeOverride:       o.TitleHeOverride,
		DescriptionHeOverride: o.DescriptionHeOverride,
		CouponOverride:        o.CouponOverride,
		TagsOverride:          tags,
		IsHidden:              o.IsHidden,
		UpdatedAt:             o.UpdatedAt,
	}
}

// AdminProductListQuery holds the admin product list parameters
type AdminProductListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Search string `form:"search" binding:"omitempty,max=200"`
	// Hidden includes products hidden by an override
	Hidden bool `form:"hidden"`
}

// StorefrontListQuery holds the public product list parameters
type StorefrontListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=50"`
	Brand    string `form:"brand" binding:"omitempty,max=100"`
	Category string `form:"category" binding:"omitempty,max=100"`
	Sort     string `form:"sort" binding:"omitempty,oneof=price_asc price_desc orders rating"`
	// Q matches the original or Hebrew title, case-insensitively
	Q string `form:"q" binding:"omitempty,max=200"`
}

// AdminProductResponse is a synced product with its override as the admin sees it
type AdminProductResponse struct {
	ID                  uuid.UUID         `json:"id"`
	AliExpressProductID string            `json:"aliexpressProductId"`
	Slug                string            `json:"slug"`
	TitleOriginal       string            `json:"titleOriginal"`
	TitleHe             *string           `json:"titleHe"`
	Price               decimal.Decimal   `json:"price"`
	Currency            string            `json:"currency"`
	OriginalPrice       *decimal.Decimal  `json:"originalPrice"`
	Discount            int               `json:"discount"`
	TotalOrders         int               `json:"totalOrders"`
	Rating              *float64          `json:"rating"`
	CouponCode          *string           `json:"couponCode"`
	BrandName           *string           `json:"brandName"`
	CategoryName        *string           `json:"categoryName"`
	BrandHints          []string          `json:"brandHints"`
	CategoryHints       []string          `json:"categoryHints"`
	IsActive            bool              `json:"isActive"`
	UpdatedAt           time.Time         `json:"updatedAt"`
	Override            *OverrideResponse `json:"override"`
}

// ToAdminProductResponse converts a listed row to an admin response
func ToAdminProductResponse(row catalog.ProductRow) AdminProductResponse {
	p := row.Product
	return AdminProductResponse{
		ID:                  p.ID,
		AliExpressProductID: p.AliExpressProductID,
		Slug:                p.Slug,
		TitleOriginal:       p.TitleOriginal,
		TitleHe:             p.TitleHe,
		Price:               p.Price,
		Currency:            p.Currency,
		OriginalPrice:       p.OriginalPrice,
		Discount:            discountOf(&p),
		TotalOrders:         p.TotalOrders,
		Rating:              p.Rating,
		CouponCode:          p.Coupon.Code,
		BrandName:           row.BrandName,
		CategoryName:        row.CategoryName,
		BrandHints:          p.BrandHints,
		CategoryHints:       p.CategoryHints,
		IsActive:            p.IsActive,
		UpdatedAt:           p.UpdatedAt,
		Override:            ToOverrideResponse(row.Override),
	}
}

// StorefrontProduct is a product as the storefront renders it
type StorefrontProduct struct {
	catalog.ProductDisplay
	Discount      int    `json:"discount"`
	PriceLabel    string `json:"priceLabel"`
	PriceLabelILS string `json:"priceLabelIls"`
}

// ToStorefrontProduct merges a listed row's override and reference names
func ToStorefrontProduct(row catalog.ProductRow) StorefrontProduct {
	p := row.Product
	d := catalog.BuildDisplay(&p, row.Override)
	d.BrandSlug = row.BrandSlug
	d.BrandName = row.BrandName
	d.CategorySlug = row.CategorySlug
	d.CategoryName = row.CategoryName
	return StorefrontProduct{
		ProductDisplay: d,
		Discount:       discountOf(&p),
		PriceLabel:     catalog.FormatPrice(p.Price, p.Currency),
		PriceLabelILS:  catalog.FormatPrice(catalog.USDToILS(p.Price), "ILS"),
	}
}

func discountOf(p *catalog.Product) int {
	if p.OriginalPrice == nil {
		return 0
	}
	return catalog.CalcDiscount(p.OriginalPrice.InexactFloat64(), p.Price.InexactFloat64())
}

// Page is one page of a list with its total count
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

func newPage[T any](items []T, total int64, page, pageSize int) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Page[T]{Items: items, Total: total, Page: page, PageSize: pageSize, TotalPages: totalPages}
}

// SyncRunResponse represents a sync run in API responses
type SyncRunResponse struct {
	ID              uuid.UUID  `json:"id"`
	StartedAt       time.Time  `json:"startedAt"`
	CompletedAt     *time.Time `json:"completedAt"`
	Status          string     `json:"status"`
	TotalQueries    int        `json:"totalQueries"`
	TotalProducts   int        `json:"totalProducts"`
	NewProducts     int        `json:"newProducts"`
	UpdatedProducts int        `json:"updatedProducts"`
	Errors          []string   `json:"errors"`
	TriggeredBy     string     `json:"triggeredBy"`
}

// ToSyncRunResponse converts a run to a response
func ToSyncRunResponse(r *syncrun.SyncRun) SyncRunResponse {
	errs := r.Errors
	if errs == nil {
		errs = []string{}
	}
	return SyncRunResponse{
		ID:              r.ID,
		StartedAt:       r.StartedAt,
		CompletedAt:     r.CompletedAt,
		Status:          string(r.Status),
		TotalQueries:    r.TotalQueries,
		TotalProducts:   r.TotalProducts,
		NewProducts:     r.NewProducts,
		UpdatedProducts: r.UpdatedProducts,
		Errors:          errs,
		TriggeredBy:     string(r.TriggeredBy),
	}
}

// SyncLogResponse represents a sync log event in API responses
type SyncLogResponse struct {
	ID        uuid.UUID      `json:"id"`
	QueryID   *uuid.UUID     `json:"queryId"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"createdAt"`
}

// SyncRunDetailResponse is a run with its logs, newest first
type SyncRunDetailResponse struct {
	Run  SyncRunResponse   `json:"run"`
	Logs []SyncLogResponse `json:"logs"`
}

// CouponResponse represents an active platform coupon
type CouponResponse struct {
	ID            uuid.UUID  `json:"id"`
	PromoName     string     `json:"promoName"`
	PromoNameHe   *string    `json:"promoNameHe"`
	CouponCode    *string    `json:"couponCode"`
	DiscountValue *string    `json:"discountValue"`
	MinSpend      *string    `json:"minSpend"`
	StartDate     *time.Time `json:"startDate"`
	EndDate       *time.Time `json:"endDate"`
	PromotionURL  *string    `json:"promotionUrl"`
}

// CouponsResponse holds the platform promotions and this month's general coupons
type CouponsResponse struct {
	Platform []CouponResponse         `json:"platform"`
	General  catalog.GeneralCouponSet `json:"general"`
}
