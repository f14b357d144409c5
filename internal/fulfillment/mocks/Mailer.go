package mocks

import (
	context "context"

	models "github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	mock "github.com/stretchr/testify/mock"
)

// MockMailer is a mock type for the Mailer type
type MockMailer struct {
	mock.Mock
}

func (_m *MockMailer) SendOrderConfirmation(ctx context.Context, order *models.Order) error {
	ret := _m.Called(ctx, order)

	return ret.Error(0)
}

func NewMockMailer(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMailer {
	m := &MockMailer{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
