package models

import "github.com/google/uuid"

// PaymentSession is handed to the client to open the gateway UI. It is not
// persisted; only GatewayOrderID is recorded on the order.
type PaymentSession struct {
	Provider         string `json:"provider"`
	GatewayOrderID   string `json:"gateway_order_id"`
	AmountMinorUnits int64  `json:"amount"`
	Currency         string `json:"currency"`
	KeyID            string `json:"key_id,omitempty"`
	ClientSecret     string `json:"client_secret,omitempty"`
	Mock             bool   `json:"mock"`
}

type VerifyPaymentRequest struct {
	OrderID        uuid.UUID `json:"order_id" validate:"required"`
	GatewayOrderID string    `json:"gateway_order_id" validate:"required"`
	PaymentID      string    `json:"payment_id" validate:"required"`
	Signature      string    `json:"signature" validate:"required"`
}

type VerificationStatus string

const (
	VerificationVerified        VerificationStatus = "verified"
	VerificationAlreadyVerified VerificationStatus = "already_verified"
)

type VerifyPaymentResponse struct {
	OrderID     uuid.UUID          `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	Status      VerificationStatus `json:"status"`
	CartCleared bool               `json:"cart_cleared"`
}

type PaymentFailureRequest struct {
	GatewayOrderID string `json:"gateway_order_id" validate:"required"`
	Reason         string `json:"reason" validate:"max=500"`
}

type PaymentCapabilities struct {
	Provider    string `json:"provider"`
	Currency    string `json:"currency"`
	KeyID       string `json:"key_id,omitempty"`
	MockEnabled bool   `json:"mock_enabled"`
}
