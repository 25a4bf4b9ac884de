package persistence

import (
	"context"
	"errors"

	"github.com/Yitzhakza/electic/internal/domain/catalog"
	"github.com/Yitzhakza/electic/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCategoryRepository implements catalog.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindAll returns every accessory category in display order
func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]catalog.AccessoryCategory, error) {
	var rows []models.AccessoryCategoryModel
	if err := r.db.WithContext(ctx).
		Order("display_order ASC, slug ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	categories := make([]catalog.AccessoryCategory, len(rows))
	for i := range rows {
		categories[i] = *rows[i].ToDomain()
	}
	return categories, nil
}

// FindBySlug finds a category by its slug
func (r *GormCategoryRepository) FindBySlug(ctx context.Context, slug string) (*catalog.AccessoryCategory, error) {
	var m models.AccessoryCategoryModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrCategoryNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// SaveIfAbsent inserts the category unless its slug is taken
func (r *GormCategoryRepository) SaveIfAbsent(ctx context.Context, category *catalog.AccessoryCategory) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(models.AccessoryCategoryModelFromDomain(category))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
