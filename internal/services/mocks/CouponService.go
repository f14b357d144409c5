package mocks

import (
	context "context"

	models "github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	mock "github.com/stretchr/testify/mock"
)

// MockCouponService is a mock type for the CouponService type
type MockCouponService struct {
	mock.Mock
}

func (_m *MockCouponService) coupon(ret mock.Arguments) (*models.CouponResponse, error) {
	var r0 *models.CouponResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.CouponResponse)
	}

	return r0, ret.Error(1)
}

func (_m *MockCouponService) Validate(ctx context.Context, code string) (*models.CouponResponse, error) {
	return _m.coupon(_m.Called(ctx, code))
}

func (_m *MockCouponService) ValidateForSession(ctx context.Context, sessionID string, code string) (*models.CouponResponse, error) {
	return _m.coupon(_m.Called(ctx, sessionID, code))
}

func NewMockCouponService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCouponService {
	m := &MockCouponService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
