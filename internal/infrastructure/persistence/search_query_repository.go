package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/Yitzhakza/electic/internal/domain/catalog"
	"github.com/Yitzhakza/electic/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSearchQueryRepository implements catalog.SearchQueryRepository using GORM
type GormSearchQueryRepository struct {
	db *gorm.DB
}

// NewGormSearchQueryRepository creates a new GormSearchQueryRepository
func NewGormSearchQueryRepository(db *gorm.DB) *GormSearchQueryRepository {
	return &GormSearchQueryRepository{db: db}
}

// FindByID finds a search query by its ID
func (r *GormSearchQueryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.SearchQuery, error) {
	var m models.SearchQueryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrQueryNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindEnabled returns enabled queries in creation order. A non-empty ids
// slice narrows the result to those queries.
func (r *GormSearchQueryRepository) FindEnabled(ctx context.Context, ids []uuid.UUID) ([]catalog.SearchQuery, error) {
	query := r.db.WithContext(ctx).Where("enabled = ?", true)
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}

	var rows []models.SearchQueryModel
	if err := query.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	queries := make([]catalog.SearchQuery, len(rows))
	for i := range rows {
		queries[i] = *rows[i].ToDomain()
	}
	return queries, nil
}

// searchQueryRow is a search query joined with its reference names
type searchQueryRow struct {
	models.SearchQueryModel
	BrandName    *string
	CategoryName *string
}

// ListWithNames returns every query with its brand and category display names
func (r *GormSearchQueryRepository) ListWithNames(ctx context.Context) ([]catalog.SearchQueryView, error) {
	var rows []searchQueryRow
	if err := r.db.WithContext(ctx).
		Table("search_queries").
		Select("search_queries.*, brands.name_he AS brand_name, accessory_categories.name_he AS category_name").
		Joins("LEFT JOIN brands ON brands.id = search_queries.brand_id").
		Joins("LEFT JOIN accessory_categories ON accessory_categories.id = search_queries.category_id").
		Order("search_queries.created_at ASC, search_queries.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]catalog.SearchQueryView, len(rows))
	for i := range rows {
		views[i] = catalog.SearchQueryView{
			SearchQuery:  *rows[i].ToDomain(),
			BrandName:    rows[i].BrandName,
			CategoryName: rows[i].CategoryName,
		}
	}
	return views, nil
}

// Save creates or updates a search query
func (r *GormSearchQueryRepository) Save(ctx context.Context, query *catalog.SearchQuery) error {
	err := r.db.WithContext(ctx).Save(models.SearchQueryModelFromDomain(query)).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return catalog.ErrUnknownReference
	}
	return err
}

// MarkSynced stamps last_sync_at on a query
func (r *GormSearchQueryRepository) MarkSynced(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.SearchQueryModel{}).
		Where("id = ?", id).
		Update("last_sync_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return catalog.ErrQueryNotFound
	}
	return nil
}

// Delete removes a search query
func (r *GormSearchQueryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SearchQueryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return catalog.ErrQueryNotFound
	}
	return nil
}

// ExistsByText checks whether the brand already has a query with the same text, ignoring case
func (r *GormSearchQueryRepository) ExistsByText(ctx context.Context, brandID uuid.UUID, text string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SearchQueryModel{}).
		Where("brand_id = ? AND LOWER(query_text) = LOWER(?)", brandID, text).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormSearchQueryRepository implements SearchQueryRepository
var _ catalog.SearchQueryRepository = (*GormSearchQueryRepository)(nil)
