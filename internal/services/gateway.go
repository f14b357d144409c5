package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	razorpayClient "github.com/aaravmahajanofficial/artisan-storefront/pkg/razorpay"
	stripeClient "github.com/aaravmahajanofficial/artisan-storefront/pkg/stripe"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
)

const (
	GatewayRazorpay = "razorpay"
	GatewayStripe   = "stripe"
	GatewayMock     = "mock"

	MockPaymentID     = "mock_payment"
	MockSignature     = "mock_signature"
	mockOrderIDPrefix = "order_mock_"
)

// ErrPaymentRejected means the callback values do not prove a payment for the
// order. Transport failures are returned as other errors.
var ErrPaymentRejected = errors.New("payment rejected by verification")

// Gateway opens payment sessions and verifies their callbacks. amountMinor is
// already in the currency's minor unit.
type Gateway interface {
	Name() string
	CreateSession(ctx context.Context, order *models.Order, amountMinor int64, currency string) (*models.PaymentSession, error)
	Verify(ctx context.Context, order *models.Order, amountMinor int64, req *models.VerifyPaymentRequest) error
}

type razorpayGateway struct {
	client razorpayClient.Client
}

func NewRazorpayGateway(client razorpayClient.Client) Gateway {
	return &razorpayGateway{client: client}
}

func (g *razorpayGateway) Name() string { return GatewayRazorpay }

func (g *razorpayGateway) KeyID() string { return g.client.KeyID() }

func (g *razorpayGateway) CreateSession(ctx context.Context, order *models.Order, amountMinor int64, currency string) (*models.PaymentSession, error) {
	gatewayOrderID, err := g.client.CreateOrder(ctx, amountMinor, currency, order.OrderNumber, map[string]string{
		"order_id": order.ID.String(),
	})
	if err != nil {
		return nil, err
	}

	return &models.PaymentSession{
		Provider:         GatewayRazorpay,
		GatewayOrderID:   gatewayOrderID,
		AmountMinorUnits: amountMinor,
		Currency:         currency,
		KeyID:            g.client.KeyID(),
	}, nil
}

func (g *razorpayGateway) Verify(_ context.Context, _ *models.Order, _ int64, req *models.VerifyPaymentRequest) error {
	if !g.client.VerifyPaymentSignature(req.GatewayOrderID, req.PaymentID, req.Signature) {
		return ErrPaymentRejected
	}

	return nil
}

type stripeGateway struct {
	client stripeClient.Client
}

func NewStripeGateway(client stripeClient.Client) Gateway {
	return &stripeGateway{client: client}
}

func (g *stripeGateway) Name() string { return GatewayStripe }

func (g *stripeGateway) CreateSession(ctx context.Context, order *models.Order, amountMinor int64, currency string) (*models.PaymentSession, error) {
	intent, err := g.client.CreatePaymentIntent(ctx, amountMinor, strings.ToLower(currency), "Order "+order.OrderNumber, map[string]string{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
	})
	if err != nil {
		return nil, err
	}

	return &models.PaymentSession{
		Provider:         GatewayStripe,
		GatewayOrderID:   intent.ID,
		AmountMinorUnits: amountMinor,
		Currency:         currency,
		ClientSecret:     intent.ClientSecret,
	}, nil
}

// Verify trusts only what Stripe reports for the intent: it must have
// succeeded for the expected amount, be settled by the reported charge, and
// the caller must hold the intent's client secret.
func (g *stripeGateway) Verify(ctx context.Context, _ *models.Order, amountMinor int64, req *models.VerifyPaymentRequest) error {
	intent, err := g.client.GetPaymentIntent(ctx, req.GatewayOrderID)
	if err != nil {
		return err
	}

	switch {
	case intent.Status != stripe.PaymentIntentStatusSucceeded:
		return ErrPaymentRejected
	case intent.Amount != amountMinor:
		return ErrPaymentRejected
	case intent.LatestCharge == nil || intent.LatestCharge.ID != req.PaymentID:
		return ErrPaymentRejected
	case subtle.ConstantTimeCompare([]byte(req.Signature), []byte(intent.ClientSecret)) != 1:
		return ErrPaymentRejected
	}

	return nil
}

// mockGateway settles test payments without a provider. It is only wired when
// the server enables test payments.
type mockGateway struct{}

func NewMockGateway() Gateway {
	return mockGateway{}
}

func (mockGateway) Name() string { return GatewayMock }

func (mockGateway) CreateSession(_ context.Context, _ *models.Order, amountMinor int64, currency string) (*models.PaymentSession, error) {
	return &models.PaymentSession{
		Provider:         GatewayMock,
		GatewayOrderID:   mockOrderIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		AmountMinorUnits: amountMinor,
		Currency:         currency,
		Mock:             true,
	}, nil
}

func (mockGateway) Verify(_ context.Context, _ *models.Order, _ int64, req *models.VerifyPaymentRequest) error {
	if !strings.HasPrefix(req.GatewayOrderID, mockOrderIDPrefix) ||
		req.PaymentID != MockPaymentID || req.Signature != MockSignature {
		return ErrPaymentRejected
	}

	return nil
}
