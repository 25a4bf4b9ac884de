package persistence

import (
	"context"
	"errors"

	"github.com/Yitzhakza/electic/internal/domain/catalog"
	"github.com/Yitzhakza/electic/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBrandRepository implements catalog.BrandRepository using GORM
type GormBrandRepository struct {
	db *gorm.DB
}

// NewGormBrandRepository creates a new GormBrandRepository
func NewGormBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

// FindAll returns every brand in display order
func (r *GormBrandRepository) FindAll(ctx context.Context) ([]catalog.Brand, error) {
	var rows []models.BrandModel
	if err := r.db.WithContext(ctx).
		Order("display_order ASC, slug ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	brands := make([]catalog.Brand, len(rows))
	for i := range rows {
		brands[i] = *rows[i].ToDomain()
	}
	return brands, nil
}

// FindBySlug finds a brand by its slug
func (r *GormBrandRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Brand, error) {
	var m models.BrandModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrBrandNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// SaveIfAbsent inserts the brand unless a brand with the same slug exists.
// It reports whether a row was written.
func (r *GormBrandRepository) SaveIfAbsent(ctx context.Context, brand *catalog.Brand) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(models.BrandModelFromDomain(brand))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Ensure GormBrandRepository implements BrandRepository
var _ catalog.BrandRepository = (*GormBrandRepository)(nil)
