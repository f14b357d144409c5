package mocks

import (
	context "context"

	models "github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	mock "github.com/stretchr/testify/mock"
)

// MockCartRepository is a mock type for the CartRepository type
type MockCartRepository struct {
	mock.Mock
}

func (_m *MockCartRepository) GetCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	ret := _m.Called(ctx, sessionID)

	var r0 *models.Cart
	if rf, ok := ret.Get(0).(func(context.Context, string) *models.Cart); ok {
		r0 = rf(ctx, sessionID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Cart)
	}

	return r0, ret.Error(1)
}

func (_m *MockCartRepository) PutCart(ctx context.Context, cart *models.Cart) error {
	ret := _m.Called(ctx, cart)

	if rf, ok := ret.Get(0).(func(context.Context, *models.Cart) error); ok {
		return rf(ctx, cart)
	}

	return ret.Error(0)
}

func (_m *MockCartRepository) ClearCart(ctx context.Context, sessionID string) error {
	ret := _m.Called(ctx, sessionID)

	return ret.Error(0)
}

func NewMockCartRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCartRepository {
	m := &MockCartRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
