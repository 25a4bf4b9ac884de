package catalog

import (
	"context"
	"time"

	"github.com/Yitzhakza/electic/internal/domain/catalog"
	"github.com/Yitzhakza/electic/internal/domain/syncrun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByExternalID(ctx context.Context, externalID string) (*catalog.Product, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Insert(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateByExternalID(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateCoupon(ctx context.Context, id uuid.UUID, coupon catalog.Coupon, at time.Time) error {
	args := m.Called(ctx, id, coupon, at)
	return args.Error(0)
}

func (m *MockProductRepository) FindWithCoupon(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) DeactivateStale(ctx context.Context, updatedBefore time.Time) (int64, error) {
	args := m.Called(ctx, updatedBefore)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, filter catalog.ProductListFilter) ([]catalog.ProductRow, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.ProductRow), args.Get(1).(int64), args.Error(2)
}

// MockOverrideRepository is a mock implementation of ProductOverrideRepository
type MockOverrideRepository struct {
	mock.Mock
}

func (m *MockOverrideRepository) FindByProductID(ctx context.Context, productID uuid.UUID) (*catalog.ProductOverride, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductOverride), args.Error(1)
}

func (m *MockOverrideRepository) Save(ctx context.Context, override *catalog.ProductOverride) error {
	args := m.Called(ctx, override)
	return args.Error(0)
}

// MockBrandRepository is a mock implementation of BrandRepository
type MockBrandRepository struct {
	mock.Mock
}

func (m *MockBrandRepository) FindAll(ctx context.Context) ([]catalog.Brand, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Brand), args.Error(1)
}

func (m *MockBrandRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Brand, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Brand), args.Error(1)
}

func (m *MockBrandRepository) SaveIfAbsent(ctx context.Context, brand *catalog.Brand) (bool, error) {
	args := m.Called(ctx, brand)
	return args.Bool(0), args.Error(1)
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]catalog.AccessoryCategory, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.AccessoryCategory), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*catalog.AccessoryCategory, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.AccessoryCategory), args.Error(1)
}

func (m *MockCategoryRepository) SaveIfAbsent(ctx context.Context, category *catalog.AccessoryCategory) (bool, error) {
	args := m.Called(ctx, category)
	return args.Bool(0), args.Error(1)
}

// MockSearchQueryRepository is a mock implementation of SearchQueryRepository
type MockSearchQueryRepository struct {
	mock.Mock
}

func (m *MockSearchQueryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.SearchQuery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.SearchQuery), args.Error(1)
}

func (m *MockSearchQueryRepository) FindEnabled(ctx context.Context, ids []uuid.UUID) ([]catalog.SearchQuery, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.SearchQuery), args.Error(1)
}

func (m *MockSearchQueryRepository) ListWithNames(ctx context.Context) ([]catalog.SearchQueryView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.SearchQueryView), args.Error(1)
}

func (m *MockSearchQueryRepository) Save(ctx context.Context, query *catalog.SearchQuery) error {
	args := m.Called(ctx, query)
	return args.Error(0)
}

func (m *MockSearchQueryRepository) MarkSynced(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockSearchQueryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSearchQueryRepository) ExistsByText(ctx context.Context, brandID uuid.UUID, text string) (bool, error) {
	args := m.Called(ctx, brandID, text)
	return args.Bool(0), args.Error(1)
}

// MockSyncRunRepository is a mock implementation of syncrun.Repository
type MockSyncRunRepository struct {
	mock.Mock
}

func (m *MockSyncRunRepository) Create(ctx context.Context, run *syncrun.SyncRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockSyncRunRepository) Update(ctx context.Context, run *syncrun.SyncRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockSyncRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*syncrun.SyncRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*syncrun.SyncRun), args.Error(1)
}

func (m *MockSyncRunRepository) FindRecent(ctx context.Context, limit int) ([]syncrun.SyncRun, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]syncrun.SyncRun), args.Error(1)
}

func (m *MockSyncRunRepository) FindRunningStartedBefore(ctx context.Context, before time.Time) ([]syncrun.SyncRun, error) {
	args := m.Called(ctx, before)
	return args.Get(0).([]syncrun.SyncRun), args.Error(1)
}

// MockSyncLogRepository is a mock implementation of syncrun.LogRepository
type MockSyncLogRepository struct {
	mock.Mock
}

func (m *MockSyncLogRepository) Append(ctx context.Context, log *syncrun.SyncLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockSyncLogRepository) FindByRun(ctx context.Context, runID uuid.UUID) ([]syncrun.SyncLog, error) {
	args := m.Called(ctx, runID)
	return args.Get(0).([]syncrun.SyncLog), args.Error(1)
}

// MockPlatformCouponRepository is a mock implementation of PlatformCouponRepository
type MockPlatformCouponRepository struct {
	mock.Mock
}

func (m *MockPlatformCouponRepository) DeactivateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPlatformCouponRepository) FindByPromoName(ctx context.Context, name string) (*catalog.PlatformCoupon, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.PlatformCoupon), args.Error(1)
}

func (m *MockPlatformCouponRepository) Save(ctx context.Context, coupon *catalog.PlatformCoupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func (m *MockPlatformCouponRepository) FindActive(ctx context.Context) ([]catalog.PlatformCoupon, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.PlatformCoupon), args.Error(1)
}
