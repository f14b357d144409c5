package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"
)

// MockRateLimitRepository is a mock type for the RateLimitRepository type
type MockRateLimitRepository struct {
	mock.Mock
}

func (_m *MockRateLimitRepository) CheckRateLimit(ctx context.Context, scope string, subject string) (bool, int, int, error) {
	ret := _m.Called(ctx, scope, subject)

	return ret.Bool(0), ret.Int(1), ret.Int(2), ret.Error(3)
}

func NewMockRateLimitRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRateLimitRepository {
	m := &MockRateLimitRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
