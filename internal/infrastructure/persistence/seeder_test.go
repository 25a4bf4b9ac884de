package persistence

import (
	"context"
	"testing"

	"github.com/Yitzhakza/electic/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeder_Seed(t *testing.T) {
	db := setupTestDB(t)
	seeder := NewSeeder(db, nil)
	ctx := context.Background()

	wantQueries := len(catalog.SelectSeedQueries(catalog.GenerateSearchQueries(), 3))

	first, err := seeder.Seed(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, len(catalog.DefaultBrands()), first.Brands)
	assert.Equal(t, len(catalog.DefaultCategories()), first.Categories)
	assert.Equal(t, wantQueries, first.Queries)
	assert.Equal(t, 2, first.Products)

	t.Run("second pass inserts nothing", func(t *testing.T) {
		second, err := seeder.Seed(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, SeedResult{}, second)
	})

	t.Run("demo products and override", func(t *testing.T) {
		products := NewGormProductRepository(db)
		p1, err := products.FindByExternalID(ctx, "DEMO0001")
		require.NoError(t, err)
		assert.Equal(t, "tesla-model-3-model-y-floor-mats-all-weather-tpe-DEMO0001", p1.Slug)
		require.NotNil(t, p1.Coupon.Code)
		assert.Equal(t, "EV5OFF", *p1.Coupon.Code)

		p2, err := products.FindByExternalID(ctx, "DEMO0002")
		require.NoError(t, err)
		assert.Nil(t, p2.Coupon.Code)

		o, err := NewGormProductOverrideRepository(db).FindByProductID(ctx, p2.ID)
		require.NoError(t, err)
		require.NotNil(t, o.CouponOverride)
		assert.Equal(t, "BYD10", *o.CouponOverride)
		assert.False(t, o.IsHidden)
	})

	t.Run("general brand queries have no category", func(t *testing.T) {
		views, err := NewGormSearchQueryRepository(db).ListWithNames(ctx)
		require.NoError(t, err)
		require.Len(t, views, wantQueries)
		assert.Equal(t, "Tesla electric car accessories", views[0].QueryText)
		assert.Nil(t, views[0].CategoryID)
	})
}
