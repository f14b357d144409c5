package mocks

import (
	context "context"

	models "github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	mock "github.com/stretchr/testify/mock"
)

// MockPricingService is a mock type for the PricingService type
type MockPricingService struct {
	mock.Mock
}

func (_m *MockPricingService) QuoteLines(ctx context.Context, lines []models.CartLine, discountPercent float64) (*models.Quote, error) {
	ret := _m.Called(ctx, lines, discountPercent)

	var r0 *models.Quote
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Quote)
	}

	return r0, ret.Error(1)
}

func NewMockPricingService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPricingService {
	m := &MockPricingService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
