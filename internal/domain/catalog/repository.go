package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BrandRepository defines persistence for brands
type BrandRepository interface {
	FindAll(ctx context.Context) ([]Brand, error)
	FindBySlug(ctx context.Context, slug string) (*Brand, error)
	// SaveIfAbsent inserts the brand unless its slug already exists
	SaveIfAbsent(ctx context.Context, brand *Brand) (bool, error)
}

// CategoryRepository defines persistence for accessory categories
type CategoryRepository interface {
	FindAll(ctx context.Context) ([]AccessoryCategory, error)
	FindBySlug(ctx context.Context, slug string) (*AccessoryCategory, error)
	SaveIfAbsent(ctx context.Context, category *AccessoryCategory) (bool, error)
}

// SearchQueryRepository defines persistence for search queries
type SearchQueryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SearchQuery, error)
	// FindEnabled returns enabled queries in creation order, optionally narrowed to ids
	FindEnabled(ctx context.Context, ids []uuid.UUID) ([]SearchQuery, error)
	ListWithNames(ctx context.Context) ([]SearchQueryView, error)
	Save(ctx context.Context, query *SearchQuery) error
	MarkSynced(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByText(ctx context.Context, brandID uuid.UUID, text string) (bool, error)
}

// ProductListFilter narrows product listings
type ProductListFilter struct {
	Page       int
	PageSize   int
	BrandID    *uuid.UUID
	CategoryID *uuid.UUID
	Search     string
	Sort       ProductSort
	ActiveOnly bool
	// IncludeHidden keeps products whose override hides them
	IncludeHidden bool
}

// ProductSort is a storefront ordering
type ProductSort string

const (
	SortOrders    ProductSort = "orders"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortRating    ProductSort = "rating"
	SortUpdated   ProductSort = "updated"
)

// ParseProductSort maps a query value to a sort, defaulting to most ordered first
func ParseProductSort(s string) ProductSort {
	switch ProductSort(s) {
	case SortPriceAsc, SortPriceDesc, SortRating, SortUpdated:
		return ProductSort(s)
	}
	return SortOrders
}

// ProductRow is a listed product with its override and reference names.
type ProductRow struct {
	Product      Product
	Override     *ProductOverride
	BrandSlug    *string
	BrandName    *string
	CategorySlug *string
	CategoryName *string
}

// ProductRepository defines persistence for products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByExternalID(ctx context.Context, externalID string) (*Product, error)
	// Insert creates a new row. The external id unique constraint rejects duplicates.
	Insert(ctx context.Context, product *Product) error
	// UpdateByExternalID overwrites mutable fields of the row with the product's external id
	UpdateByExternalID(ctx context.Context, product *Product) error
	UpdateCoupon(ctx context.Context, id uuid.UUID, coupon Coupon, at time.Time) error
	FindWithCoupon(ctx context.Context) ([]Product, error)
	DeactivateStale(ctx context.Context, updatedBefore time.Time) (int64, error)
	List(ctx context.Context, filter ProductListFilter) ([]ProductRow, int64, error)
}

// ProductOverrideRepository defines persistence for overrides
type ProductOverrideRepository interface {
	FindByProductID(ctx context.Context, productID uuid.UUID) (*ProductOverride, error)
	Save(ctx context.Context, override *ProductOverride) error
}

// PlatformCouponRepository defines persistence for platform coupons
type PlatformCouponRepository interface {
	DeactivateAll(ctx context.Context) error
	FindByPromoName(ctx context.Context, name string) (*PlatformCoupon, error)
	Save(ctx context.Context, coupon *PlatformCoupon) error
	FindActive(ctx context.Context) ([]PlatformCoupon, error)
}
