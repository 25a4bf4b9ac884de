package catalog

import "github.com/Yitzhakza/electic/internal/domain/shared"

// Catalog domain errors
var (
	ErrBrandNotFound       = shared.NewDomainError("BRAND_NOT_FOUND", "Brand not found")
	ErrCategoryNotFound    = shared.NewDomainError("CATEGORY_NOT_FOUND", "Accessory category not found")
	ErrQueryNotFound       = shared.NewDomainError("QUERY_NOT_FOUND", "Search query not found")
	ErrProductNotFound     = shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	ErrCouponNotFound      = shared.NewDomainError("COUPON_NOT_FOUND", "Platform coupon not found")
	ErrOverrideNotFound    = shared.NewDomainError("OVERRIDE_NOT_FOUND", "Product override not found")
	ErrProductExists       = shared.NewDomainError("PRODUCT_EXISTS", "Product with this external id already exists")
	ErrInvalidQueryText    = shared.NewDomainError("INVALID_QUERY_TEXT", "Query text must be between 2 and 200 characters")
	ErrQueryBrandRequired  = shared.NewDomainError("QUERY_BRAND_REQUIRED", "Search query requires a brand")
	ErrInvalidExternalID   = shared.NewDomainError("INVALID_EXTERNAL_ID", "External product id is required")
	ErrCouponOverrideLong  = shared.NewDomainError("COUPON_OVERRIDE_TOO_LONG", "Coupon override cannot exceed 64 characters")
	ErrPromotionNameEmpty  = shared.NewDomainError("PROMOTION_NAME_EMPTY", "Promotion name is required")
	ErrInvalidProductPrice = shared.NewDomainError("INVALID_PRODUCT_PRICE", "Product price must be positive")
	ErrUnknownReference    = shared.NewDomainError("UNKNOWN_REFERENCE", "Brand or category does not exist")
)
