package mocks

import (
	context "context"

	models "github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	mock "github.com/stretchr/testify/mock"
)

// MockDispatcher is a mock type for the Dispatcher type
type MockDispatcher struct {
	mock.Mock
}

func (_m *MockDispatcher) Dispatch(ctx context.Context, order *models.Order) {
	_m.Called(ctx, order)
}

func NewMockDispatcher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockDispatcher {
	m := &MockDispatcher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
