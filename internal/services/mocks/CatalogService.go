package mocks

import (
	context "context"

	models "github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
)

// MockCatalogService is a mock type for the CatalogService type
type MockCatalogService struct {
	mock.Mock
}

func (_m *MockCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	ret := _m.Called(ctx, id)

	var r0 *models.Product
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Product)
	}

	return r0, ret.Error(1)
}

func (_m *MockCatalogService) ResolveProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, []uuid.UUID, error) {
	ret := _m.Called(ctx, ids)

	var r0 map[uuid.UUID]*models.Product
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[uuid.UUID]*models.Product)
	}

	var r1 []uuid.UUID
	if ret.Get(1) != nil {
		r1 = ret.Get(1).([]uuid.UUID)
	}

	return r0, r1, ret.Error(2)
}

func (_m *MockCatalogService) ListProducts(ctx context.Context, page int, pageSize int) ([]*models.Product, int, error) {
	ret := _m.Called(ctx, page, pageSize)

	var r0 []*models.Product
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*models.Product)
	}

	return r0, ret.Int(1), ret.Error(2)
}

func (_m *MockCatalogService) ListCategories(ctx context.Context) ([]string, error) {
	ret := _m.Called(ctx)

	var r0 []string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}

	return r0, ret.Error(1)
}

func NewMockCatalogService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCatalogService {
	m := &MockCatalogService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
