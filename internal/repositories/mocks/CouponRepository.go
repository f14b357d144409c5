package mocks

import (
	context "context"

	models "github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	mock "github.com/stretchr/testify/mock"
)

// MockCouponRepository is a mock type for the CouponRepository type
type MockCouponRepository struct {
	mock.Mock
}

func (_m *MockCouponRepository) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	ret := _m.Called(ctx, code)

	var r0 *models.Coupon
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Coupon)
	}

	return r0, ret.Error(1)
}

func NewMockCouponRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCouponRepository {
	m := &MockCouponRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
