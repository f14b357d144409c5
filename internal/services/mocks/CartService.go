package mocks

import (
	context "context"

	models "github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	mock "github.com/stretchr/testify/mock"
)

// MockCartService is a mock type for the CartService type
type MockCartService struct {
	mock.Mock
}

func (_m *MockCartService) cart(ret mock.Arguments) (*models.Cart, error) {
	var r0 *models.Cart
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Cart)
	}

	return r0, ret.Error(1)
}

func (_m *MockCartService) Load(ctx context.Context, sessionID string) (*models.Cart, error) {
	return _m.cart(_m.Called(ctx, sessionID))
}

func (_m *MockCartService) Hold(ctx context.Context, sessionID string) (*models.Cart, func(), error) {
	ret := _m.Called(ctx, sessionID)

	var r0 *models.Cart
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Cart)
	}

	var r1 func()
	if ret.Get(1) != nil {
		r1 = ret.Get(1).(func())
	}

	return r0, r1, ret.Error(2)
}

func (_m *MockCartService) Add(ctx context.Context, sessionID string, req *models.AddItemRequest) (*models.Cart, error) {
	return _m.cart(_m.Called(ctx, sessionID, req))
}

func (_m *MockCartService) Update(ctx context.Context, sessionID string, req *models.UpdateItemRequest) (*models.Cart, error) {
	return _m.cart(_m.Called(ctx, sessionID, req))
}

func (_m *MockCartService) Remove(ctx context.Context, sessionID string, req *models.RemoveItemRequest) (*models.Cart, error) {
	return _m.cart(_m.Called(ctx, sessionID, req))
}

func (_m *MockCartService) Clear(ctx context.Context, sessionID string) error {
	ret := _m.Called(ctx, sessionID)

	return ret.Error(0)
}

func NewMockCartService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCartService {
	m := &MockCartService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
