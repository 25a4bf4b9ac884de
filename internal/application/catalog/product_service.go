package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/Yitzhakza/electic/internal/domain/catalog"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// AdminPageSize is the fixed page size of the admin product list
	AdminPageSize = 30
	// DefaultStorefrontLimit is the storefront page size when none is given
	DefaultStorefrontLimit = 20
	// MaxStorefrontLimit caps the storefront page size
	MaxStorefrontLimit = 50
)

// ProductService serves product listings and admin overrides
type ProductService struct {
	productRepo  catalog.ProductRepository
	overrideRepo catalog.ProductOverrideRepository
	brandRepo    catalog.BrandRepository
	categoryRepo catalog.CategoryRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	overrideRepo catalog.ProductOverrideRepository,
	brandRepo catalog.BrandRepository,
	categoryRepo catalog.CategoryRepository,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo:  productRepo,
		overrideRepo: overrideRepo,
		brandRepo:    brandRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// ListAdmin returns a page of products for the admin, including inactive ones.
// Hidden products are included only when requested.
func (s *ProductService) ListAdmin(ctx context.Context, q AdminProductListQuery) (Page[AdminProductResponse], error) {
	page := max(q.Page, 1)
	rows, total, err := s.productRepo.List(ctx, catalog.ProductListFilter{
		Page:          page,
		PageSize:      AdminPageSize,
		Search:        q.Search,
		Sort:          catalog.SortUpdated,
		IncludeHidden: q.Hidden,
	})
	if err != nil {
		return Page[AdminProductResponse]{}, err
	}

	items := make([]AdminProductResponse, len(rows))
	for i, row := range rows {
		items[i] = ToAdminProductResponse(row)
	}
	return newPage(items, total, page, AdminPageSize), nil
}

// ListStorefront returns active, visible products with overrides applied.
// An unknown brand or category slug yields an empty page.
func (s *ProductService) ListStorefront(ctx context.Context, q StorefrontListQuery) (Page[StorefrontProduct], error) {
	page := max(q.Page, 1)
	limit := q.Limit
	if limit < 1 {
		limit = DefaultStorefrontLimit
	}
	limit = min(limit, MaxStorefrontLimit)

	filter := catalog.ProductListFilter{
		Page:       page,
		PageSize:   limit,
		Search:     q.Q,
		Sort:       catalog.ParseProductSort(q.Sort),
		ActiveOnly: true,
	}

	if q.Brand != "" {
		brand, err := s.brandRepo.FindBySlug(ctx, q.Brand)
		if errors.Is(err, catalog.ErrBrandNotFound) {
			return newPage[StorefrontProduct](nil, 0, page, limit), nil
		}
		if err != nil {
			return Page[StorefrontProduct]{}, err
		}
		filter.BrandID = &brand.ID
	}
	if q.Category != "" {
		category, err := s.categoryRepo.FindBySlug(ctx, q.Category)
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			return newPage[StorefrontProduct](nil, 0, page, limit), nil
		}
		if err != nil {
			return Page[StorefrontProduct]{}, err
		}
		filter.CategoryID = &category.ID
	}

	rows, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return Page[StorefrontProduct]{}, err
	}
	items := make([]StorefrontProduct, len(rows))
	for i, row := range rows {
		items[i] = ToStorefrontProduct(row)
	}
	return newPage(items, total, page, limit), nil
}

// UpsertOverride creates or patches the override of a product
func (s *ProductService) UpsertOverride(ctx context.Context, productID uuid.UUID, req OverrideRequest) (*OverrideResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	override, err := s.overrideRepo.FindByProductID(ctx, productID)
	switch {
	case errors.Is(err, catalog.ErrOverrideNotFound):
		override = catalog.NewProductOverride(productID)
	case err != nil:
		return nil, err
	}

	if err := override.ApplyPatch(req.patch(), s.now()); err != nil {
		return nil, err
	}
	if err := s.overrideRepo.Save(ctx, override); err != nil {
		return nil, err
	}

	s.logger.Info("Product override saved",
		zap.String("product_id", productID.String()),
		zap.Bool("hidden", override.IsHidden),
	)
	return ToOverrideResponse(override), nil
}
