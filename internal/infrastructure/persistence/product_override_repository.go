package persistence

import (
	"context"
	"errors"

	"github.com/Yitzhakza/electic/internal/domain/catalog"
	"github.com/Yitzhakza/electic/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductOverrideRepository implements catalog.ProductOverrideRepository using GORM
type GormProductOverrideRepository struct {
	db *gorm.DB
}

// NewGormProductOverrideRepository creates a new GormProductOverrideRepository
func NewGormProductOverrideRepository(db *gorm.DB) *GormProductOverrideRepository {
	return &GormProductOverrideRepository{db: db}
}

// FindByProductID finds the override of a product
func (r *GormProductOverrideRepository) FindByProductID(ctx context.Context, productID uuid.UUID) (*catalog.ProductOverride, error) {
	var m models.ProductOverrideModel
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrOverrideNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// Save upserts the override on product_id, so a product never has two
func (r *GormProductOverrideRepository) Save(ctx context.Context, override *catalog.ProductOverride) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title_he_override", "description_he_override", "coupon_override",
				"tags_override", "is_hidden", "updated_at",
			}),
		}).
		Create(models.ProductOverrideModelFromDomain(override)).Error
}

// Ensure GormProductOverrideRepository implements ProductOverrideRepository
var _ catalog.ProductOverrideRepository = (*GormProductOverrideRepository)(nil)
