package mocks

import (
	context "context"

	models "github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
)

// MockOrderService is a mock type for the OrderService type
type MockOrderService struct {
	mock.Mock
}

func (_m *MockOrderService) Checkout(ctx context.Context, sessionID string, req *models.CheckoutRequest) (*models.CheckoutResult, error) {
	ret := _m.Called(ctx, sessionID, req)

	var r0 *models.CheckoutResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.CheckoutResult)
	}

	return r0, ret.Error(1)
}

func (_m *MockOrderService) order(ret mock.Arguments) (*models.Order, error) {
	var r0 *models.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Order)
	}

	return r0, ret.Error(1)
}

func (_m *MockOrderService) GetOrder(ctx context.Context, sessionID string, id uuid.UUID) (*models.Order, error) {
	return _m.order(_m.Called(ctx, sessionID, id))
}

func (_m *MockOrderService) ListOrders(ctx context.Context, filter models.OrderListFilter) ([]*models.Order, int, error) {
	ret := _m.Called(ctx, filter)

	var r0 []*models.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*models.Order)
	}

	return r0, ret.Int(1), ret.Error(2)
}

func (_m *MockOrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, req *models.UpdateOrderStatusRequest) (*models.Order, error) {
	return _m.order(_m.Called(ctx, id, req))
}

func NewMockOrderService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockOrderService {
	m := &MockOrderService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
