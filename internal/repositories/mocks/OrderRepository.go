package mocks

import (
	context "context"

	models "github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock type for the OrderRepository type
type MockOrderRepository struct {
	mock.Mock
}

func (_m *MockOrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	ret := _m.Called(ctx, order)

	return ret.Error(0)
}

func (_m *MockOrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	ret := _m.Called(ctx, id)

	var r0 *models.Order
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) *models.Order); ok {
		r0 = rf(ctx, id)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Order)
	}

	return r0, ret.Error(1)
}

func (_m *MockOrderRepository) GetOrderByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error) {
	ret := _m.Called(ctx, gatewayOrderID)

	var r0 *models.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Order)
	}

	return r0, ret.Error(1)
}

func (_m *MockOrderRepository) AttachGatewayOrder(ctx context.Context, id uuid.UUID, gateway string, gatewayOrderID string, from []models.CheckoutState) (bool, error) {
	ret := _m.Called(ctx, id, gateway, gatewayOrderID, from)

	return ret.Bool(0), ret.Error(1)
}

func (_m *MockOrderRepository) UpdateCheckoutState(ctx context.Context, id uuid.UUID, from []models.CheckoutState, to models.CheckoutState) (bool, error) {
	ret := _m.Called(ctx, id, from, to)

	return ret.Bool(0), ret.Error(1)
}

func (_m *MockOrderRepository) MarkPaymentCompleted(ctx context.Context, id uuid.UUID, gatewayPaymentID string) (bool, error) {
	ret := _m.Called(ctx, id, gatewayPaymentID)

	return ret.Bool(0), ret.Error(1)
}

func (_m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	ret := _m.Called(ctx, id, status)

	var r0 *models.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Order)
	}

	return r0, ret.Error(1)
}

func (_m *MockOrderRepository) ListOrders(ctx context.Context, filter models.OrderListFilter) ([]*models.Order, int, error) {
	ret := _m.Called(ctx, filter)

	var r0 []*models.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*models.Order)
	}

	return r0, ret.Int(1), ret.Error(2)
}

func NewMockOrderRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockOrderRepository {
	m := &MockOrderRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
