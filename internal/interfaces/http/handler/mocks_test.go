package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	catalogapp "github.com/Yitzhakza/electic/internal/application/catalog"
	"github.com/Yitzhakza/electic/internal/application/catalogsync"
)

type MockSyncRunner struct {
	mock.Mock
}

func (m *MockSyncRunner) RunSync(ctx context.Context, opts catalogsync.RunOptions) (uuid.UUID, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

type MockCouponRunner struct {
	mock.Mock
}

func (m *MockCouponRunner) Run(ctx context.Context) (catalogsync.CouponSyncResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(catalogsync.CouponSyncResult), args.Error(1)
}

type MockSyncHistory struct {
	mock.Mock
}

func (m *MockSyncHistory) RecentRuns(ctx context.Context) ([]catalogapp.SyncRunResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalogapp.SyncRunResponse), args.Error(1)
}

func (m *MockSyncHistory) RunDetail(ctx context.Context, id uuid.UUID) (*catalogapp.SyncRunDetailResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.SyncRunDetailResponse), args.Error(1)
}

type MockQueryManager struct {
	mock.Mock
}

func (m *MockQueryManager) List(ctx context.Context) ([]catalogapp.QueryResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalogapp.QueryResponse), args.Error(1)
}

func (m *MockQueryManager) Create(ctx context.Context, req catalogapp.CreateQueryRequest) (*catalogapp.QueryResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.QueryResponse), args.Error(1)
}

func (m *MockQueryManager) Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateQueryRequest) (*catalogapp.QueryResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.QueryResponse), args.Error(1)
}

func (m *MockQueryManager) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockProductCatalog struct {
	mock.Mock
}

func (m *MockProductCatalog) ListAdmin(ctx context.Context, q catalogapp.AdminProductListQuery) (catalogapp.Page[catalogapp.AdminProductResponse], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(catalogapp.Page[catalogapp.AdminProductResponse]), args.Error(1)
}

func (m *MockProductCatalog) ListStorefront(ctx context.Context, q catalogapp.StorefrontListQuery) (catalogapp.Page[catalogapp.StorefrontProduct], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(catalogapp.Page[catalogapp.StorefrontProduct]), args.Error(1)
}

func (m *MockProductCatalog) UpsertOverride(ctx context.Context, productID uuid.UUID, req catalogapp.OverrideRequest) (*catalogapp.OverrideResponse, error) {
	args := m.Called(ctx, productID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.OverrideResponse), args.Error(1)
}

type MockCouponCatalog struct {
	mock.Mock
}

func (m *MockCouponCatalog) Coupons(ctx context.Context) (*catalogapp.CouponsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.CouponsResponse), args.Error(1)
}
