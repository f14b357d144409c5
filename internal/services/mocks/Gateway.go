package mocks

import (
	context "context"

	models "github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	mock "github.com/stretchr/testify/mock"
)

// MockGateway is a mock type for the Gateway type
type MockGateway struct {
	mock.Mock
}

func (_m *MockGateway) Name() string {
	ret := _m.Called()

	return ret.String(0)
}

func (_m *MockGateway) CreateSession(ctx context.Context, order *models.Order, amountMinor int64, currency string) (*models.PaymentSession, error) {
	ret := _m.Called(ctx, order, amountMinor, currency)

	var r0 *models.PaymentSession
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.PaymentSession)
	}

	return r0, ret.Error(1)
}

func (_m *MockGateway) Verify(ctx context.Context, order *models.Order, amountMinor int64, req *models.VerifyPaymentRequest) error {
	ret := _m.Called(ctx, order, amountMinor, req)

	return ret.Error(0)
}

func NewMockGateway(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockGateway {
	m := &MockGateway{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
