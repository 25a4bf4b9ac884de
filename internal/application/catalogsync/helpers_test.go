package catalogsync

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Yitzhakza/electic/internal/domain/catalog"
	"github.com/Yitzhakza/electic/internal/domain/classifier"
	"github.com/Yitzhakza/electic/internal/domain/integration"
	"github.com/Yitzhakza/electic/internal/infrastructure/ecommerce"
	"github.com/Yitzhakza/electic/internal/infrastructure/persistence"
	"github.com/Yitzhakza/electic/internal/infrastructure/persistence/models"
)

// mockMarketplace is a testify mock of integration.Marketplace
type mockMarketplace struct {
	mock.Mock
}

func (m *mockMarketplace) SearchProducts(ctx context.Context, params integration.SearchParams) ([]integration.RawProduct, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.RawProduct), args.Error(1)
}

func (m *mockMarketplace) GetProductDetail(ctx context.Context, productID string) (integration.RawProduct, bool, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(integration.RawProduct), args.Bool(1), args.Error(2)
}

func (m *mockMarketplace) GenerateAffiliateLink(ctx context.Context, originalURL string) (integration.AffiliateLink, bool, error) {
	args := m.Called(ctx, originalURL)
	return args.Get(0).(integration.AffiliateLink), args.Bool(1), args.Error(2)
}

func (m *mockMarketplace) GetProductCoupons(ctx context.Context, productID string) (string, bool) {
	args := m.Called(ctx, productID)
	return args.String(0), args.Bool(1)
}

func (m *mockMarketplace) GetFeaturedPromotions(ctx context.Context) []integration.FeaturedPromotion {
	args := m.Called(ctx)
	return args.Get(0).([]integration.FeaturedPromotion)
}

func (m *mockMarketplace) GetPromotionProducts(ctx context.Context, promotionName string, pageNo int) ([]integration.RawProduct, error) {
	args := m.Called(ctx, promotionName, pageNo)
	return args.Get(0).([]integration.RawProduct), args.Error(1)
}

// quietEnrichment makes affiliate-link and coupon lookups succeed with no data
func (m *mockMarketplace) quietEnrichment() {
	m.On("GenerateAffiliateLink", mock.Anything, mock.Anything).Return(integration.AffiliateLink{}, false, nil).Maybe()
	m.On("GetProductCoupons", mock.Anything, mock.Anything).Return("", false).Maybe()
}

// testEnv is a migrated in-memory database with the gorm repositories over it
type testEnv struct {
	db         *gorm.DB
	brands     *persistence.GormBrandRepository
	categories *persistence.GormCategoryRepository
	queries    *persistence.GormSearchQueryRepository
	products   *persistence.GormProductRepository
	coupons    *persistence.GormPlatformCouponRepository
	runs       *persistence.GormSyncRunRepository
	logs       *persistence.GormSyncLogRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	return &testEnv{
		db:         db,
		brands:     persistence.NewGormBrandRepository(db),
		categories: persistence.NewGormCategoryRepository(db),
		queries:    persistence.NewGormSearchQueryRepository(db),
		products:   persistence.NewGormProductRepository(db),
		coupons:    persistence.NewGormPlatformCouponRepository(db),
		runs:       persistence.NewGormSyncRunRepository(db),
		logs:       persistence.NewGormSyncLogRepository(db),
	}
}

func (env *testEnv) repositories() Repositories {
	return Repositories{
		Queries:  env.queries,
		Products: env.products,
		Runs:     env.runs,
		Logs:     env.logs,
	}
}

func (env *testEnv) seedBrand(t *testing.T, slug string, order int) uuid.UUID {
	t.Helper()
	b, err := catalog.NewBrand(slug, slug, slug, order)
	require.NoError(t, err)
	_, err = env.brands.SaveIfAbsent(context.Background(), b)
	require.NoError(t, err)
	return b.ID
}

func (env *testEnv) seedCategory(t *testing.T, slug string, order int) uuid.UUID {
	t.Helper()
	c, err := catalog.NewAccessoryCategory(slug, slug, slug, nil, order)
	require.NoError(t, err)
	_, err = env.categories.SaveIfAbsent(context.Background(), c)
	require.NoError(t, err)
	return c.ID
}

func (env *testEnv) seedQuery(t *testing.T, brandID uuid.UUID, categoryID *uuid.UUID, text string, createdAt time.Time) *catalog.SearchQuery {
	t.Helper()
	q, err := catalog.NewSearchQuery(brandID, categoryID, text)
	require.NoError(t, err)
	q.CreatedAt = createdAt
	require.NoError(t, env.queries.Save(context.Background(), q))
	return q
}

// rawProduct builds a search hit that passes normalization
func rawProduct(id, title string) integration.RawProduct {
	return integration.RawProduct{
		"product_id":                 json.Number(id),
		"product_title":              title,
		"product_detail_url":         fmt.Sprintf("https://www.aliexpress.com/item/%s.html", id),
		"product_main_image_url":     "https://ae01.alicdn.com/kf/" + id + ".jpg",
		"target_sale_price":          "25.99",
		"target_sale_price_currency": "USD",
		"target_original_price":      "45.00",
		"evaluate_rate":              "96.5%",
		"lastest_volume":             json.Number("120"),
	}
}

func newTestEngine(env *testEnv, mp *mockMarketplace, cfg EngineConfig, opts ...EngineOption) *Engine {
	return NewEngine(
		mp,
		ecommerce.NewAliExpressNormalizer(zap.NewNop()),
		classifier.Default(),
		referenceFromRepos{env.brands, env.categories},
		env.repositories(),
		cfg,
		opts...,
	)
}

// referenceFromRepos loads the index on every call
type referenceFromRepos struct {
	brands     catalog.BrandRepository
	categories catalog.CategoryRepository
}

func (r referenceFromRepos) Index(ctx context.Context) (*catalog.ReferenceIndex, error) {
	brands, err := r.brands.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := r.categories.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.NewReferenceIndex(brands, categories), nil
}
