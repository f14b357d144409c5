package mocks

import (
	context "context"

	models "github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	mock "github.com/stretchr/testify/mock"
)

// MockAdminService is a mock type for the AdminService type
type MockAdminService struct {
	mock.Mock
}

func (_m *MockAdminService) Login(ctx context.Context, req *models.AdminLoginRequest) (*models.AdminLoginResponse, error) {
	ret := _m.Called(ctx, req)

	var r0 *models.AdminLoginResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.AdminLoginResponse)
	}

	return r0, ret.Error(1)
}

func NewMockAdminService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAdminService {
	m := &MockAdminService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
