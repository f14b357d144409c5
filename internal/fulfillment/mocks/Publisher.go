package mocks

import (
	context "context"

	models "github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	mock "github.com/stretchr/testify/mock"
)

// MockPublisher is a mock type for the Publisher type
type MockPublisher struct {
	mock.Mock
}

func (_m *MockPublisher) PublishOrderPaid(ctx context.Context, order *models.Order) error {
	ret := _m.Called(ctx, order)

	return ret.Error(0)
}

func (_m *MockPublisher) Close() {
	_m.Called()
}

func NewMockPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPublisher {
	m := &MockPublisher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
