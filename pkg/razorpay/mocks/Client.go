package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client type
type MockClient struct {
	mock.Mock
}

func (_m *MockClient) CreateOrder(ctx context.Context, amountMinor int64, currency string, receipt string, notes map[string]string) (string, error) {
	ret := _m.Called(ctx, amountMinor, currency, receipt, notes)

	return ret.String(0), ret.Error(1)
}

func (_m *MockClient) VerifyPaymentSignature(gatewayOrderID string, paymentID string, signature string) bool {
	ret := _m.Called(gatewayOrderID, paymentID, signature)

	return ret.Bool(0)
}

func (_m *MockClient) KeyID() string {
	ret := _m.Called()

	return ret.String(0)
}

func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
