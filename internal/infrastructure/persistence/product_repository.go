package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Yitzhakza/electic/internal/domain/catalog"
	"github.com/Yitzhakza/electic/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultProductPageSize = 20
	maxProductPageSize     = 100
)

// productSortClauses maps storefront sorts to ORDER BY clauses. The id
// tiebreaker keeps paging stable.
var productSortClauses = map[catalog.ProductSort]string{
	catalog.SortOrders:    "products.total_orders DESC, products.id ASC",
	catalog.SortPriceAsc:  "products.price ASC, products.id ASC",
	catalog.SortPriceDesc: "products.price DESC, products.id ASC",
	catalog.SortRating:    "products.rating IS NULL, products.rating DESC, products.id ASC",
	catalog.SortUpdated:   "products.updated_at DESC, products.id ASC",
}

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByExternalID finds a product by its AliExpress product id
func (r *GormProductRepository) FindByExternalID(ctx context.Context, externalID string) (*catalog.Product, error) {
	return r.findOne(ctx, "aliexpress_product_id = ?", externalID)
}

func (r *GormProductRepository) findOne(ctx context.Context, cond string, arg any) (*catalog.Product, error) {
	var m models.ProductModel
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// Insert creates a new product row. A duplicate external id or slug
// returns catalog.ErrProductExists.
func (r *GormProductRepository) Insert(ctx context.Context, product *catalog.Product) error {
	err := r.db.WithContext(ctx).Create(models.ProductModelFromDomain(product)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return catalog.ErrProductExists
	}
	return err
}

// UpdateByExternalID overwrites the synced columns of the row matching the
// product's external id. Slug, Hebrew content and created_at are untouched.
func (r *GormProductRepository) UpdateByExternalID(ctx context.Context, product *catalog.Product) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("aliexpress_product_id = ?", product.AliExpressProductID).
		Select(models.ProductSyncColumns).
		Updates(models.ProductModelFromDomain(product))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return catalog.ErrProductNotFound
	}
	return nil
}

// UpdateCoupon replaces the coupon columns of a product
func (r *GormProductRepository) UpdateCoupon(ctx context.Context, id uuid.UUID, coupon catalog.Coupon, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"coupon_code":      coupon.Code,
			"coupon_discount":  coupon.Discount,
			"coupon_min_spend": coupon.MinSpend,
			"coupon_expiry":    coupon.Expiry,
			"updated_at":       at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return catalog.ErrProductNotFound
	}
	return nil
}

// FindWithCoupon returns products that currently carry a coupon code
func (r *GormProductRepository) FindWithCoupon(ctx context.Context) ([]catalog.Product, error) {
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("coupon_code IS NOT NULL").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

// DeactivateStale marks active products not refreshed since updatedBefore
// as inactive and returns how many rows changed.
func (r *GormProductRepository) DeactivateStale(ctx context.Context, updatedBefore time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("is_active = ? AND updated_at < ?", true, updatedBefore).
		Updates(map[string]any{"is_active": false})
	return result.RowsAffected, result.Error
}

// List returns a page of products with their overrides and reference names,
// plus the total count matching the filter.
func (r *GormProductRepository) List(ctx context.Context, filter catalog.ProductListFilter) ([]catalog.ProductRow, int64, error) {
	page, pageSize := normalizePage(filter.Page, filter.PageSize)

	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []catalog.ProductRow{}, 0, nil
	}

	order, ok := productSortClauses[filter.Sort]
	if !ok {
		order = productSortClauses[catalog.SortOrders]
	}

	var rows []models.ProductModel
	if err := r.filtered(ctx, filter).
		Order(order).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	result, err := r.attachRelations(ctx, toProducts(rows))
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *GormProductRepository) filtered(ctx context.Context, filter catalog.ProductListFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{})
	if filter.ActiveOnly {
		query = query.Where("products.is_active = ?", true)
	}
	if !filter.IncludeHidden {
		query = query.Where(
			"NOT EXISTS (SELECT 1 FROM product_overrides po WHERE po.product_id = products.id AND po.is_hidden = ?)",
			true,
		)
	}
	if filter.BrandID != nil {
		query = query.Where("products.brand_id = ?", *filter.BrandID)
	}
	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(products.title_original) LIKE ? OR LOWER(COALESCE(products.title_he, '')) LIKE ?",
			pattern, pattern,
		)
	}
	return query
}

// attachRelations batch-loads overrides, brands and categories for a page
func (r *GormProductRepository) attachRelations(ctx context.Context, products []catalog.Product) ([]catalog.ProductRow, error) {
	productIDs := make([]uuid.UUID, 0, len(products))
	brandIDs := make([]uuid.UUID, 0)
	categoryIDs := make([]uuid.UUID, 0)
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
		if p.BrandID != nil {
			brandIDs = append(brandIDs, *p.BrandID)
		}
		if p.CategoryID != nil {
			categoryIDs = append(categoryIDs, *p.CategoryID)
		}
	}

	var overrides []models.ProductOverrideModel
	if err := r.db.WithContext(ctx).Where("product_id IN ?", productIDs).Find(&overrides).Error; err != nil {
		return nil, err
	}
	overrideByProduct := make(map[uuid.UUID]*catalog.ProductOverride, len(overrides))
	for i := range overrides {
		overrideByProduct[overrides[i].ProductID] = overrides[i].ToDomain()
	}

	brands := make(map[uuid.UUID]models.BrandModel)
	if len(brandIDs) > 0 {
		var rows []models.BrandModel
		if err := r.db.WithContext(ctx).Where("id IN ?", brandIDs).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, b := range rows {
			brands[b.ID] = b
		}
	}

	categories := make(map[uuid.UUID]models.AccessoryCategoryModel)
	if len(categoryIDs) > 0 {
		var rows []models.AccessoryCategoryModel
		if err := r.db.WithContext(ctx).Where("id IN ?", categoryIDs).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, c := range rows {
			categories[c.ID] = c
		}
	}

	result := make([]catalog.ProductRow, len(products))
	for i, p := range products {
		row := catalog.ProductRow{Product: p, Override: overrideByProduct[p.ID]}
		if p.BrandID != nil {
			if b, ok := brands[*p.BrandID]; ok {
				row.BrandSlug = &b.Slug
				row.BrandName = &b.NameHe
			}
		}
		if p.CategoryID != nil {
			if c, ok := categories[*p.CategoryID]; ok {
				row.CategorySlug = &c.Slug
				row.CategoryName = &c.NameHe
			}
		}
		result[i] = row
	}
	return result, nil
}

func toProducts(rows []models.ProductModel) []catalog.Product {
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultProductPageSize
	}
	if pageSize > maxProductPageSize {
		pageSize = maxProductPageSize
	}
	return page, pageSize
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
