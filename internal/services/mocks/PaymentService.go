package mocks

import (
	context "context"

	models "github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
)

// MockPaymentService is a mock type for the PaymentService type
type MockPaymentService struct {
	mock.Mock
}

func (_m *MockPaymentService) Capabilities() models.PaymentCapabilities {
	ret := _m.Called()

	return ret.Get(0).(models.PaymentCapabilities)
}

func (_m *MockPaymentService) OpenSession(ctx context.Context, order *models.Order) (*models.PaymentSession, error) {
	ret := _m.Called(ctx, order)

	var r0 *models.PaymentSession
	if rf, ok := ret.Get(0).(func(context.Context, *models.Order) *models.PaymentSession); ok {
		r0 = rf(ctx, order)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.PaymentSession)
	}

	return r0, ret.Error(1)
}

func (_m *MockPaymentService) VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.VerifyPaymentResponse, error) {
	ret := _m.Called(ctx, req)

	var r0 *models.VerifyPaymentResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.VerifyPaymentResponse)
	}

	return r0, ret.Error(1)
}

func (_m *MockPaymentService) RetryPayment(ctx context.Context, sessionID string, orderID uuid.UUID) (*models.CheckoutResult, error) {
	ret := _m.Called(ctx, sessionID, orderID)

	var r0 *models.CheckoutResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.CheckoutResult)
	}

	return r0, ret.Error(1)
}

func (_m *MockPaymentService) order(ret mock.Arguments) (*models.Order, error) {
	var r0 *models.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Order)
	}

	return r0, ret.Error(1)
}

func (_m *MockPaymentService) ReportPaymentFailure(ctx context.Context, sessionID string, orderID uuid.UUID, req *models.PaymentFailureRequest) (*models.Order, error) {
	return _m.order(_m.Called(ctx, sessionID, orderID, req))
}

func (_m *MockPaymentService) AbandonPayment(ctx context.Context, sessionID string, orderID uuid.UUID) (*models.Order, error) {
	return _m.order(_m.Called(ctx, sessionID, orderID))
}

func (_m *MockPaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	ret := _m.Called(ctx, payload, signature)

	return ret.Error(0)
}

func NewMockPaymentService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPaymentService {
	m := &MockPaymentService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
