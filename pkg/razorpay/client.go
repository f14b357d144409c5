package razorpay

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

// Client is the subset of the Razorpay API used to settle storefront orders.
type Client interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (string, error)
	VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) bool
	KeyID() string
}

type razorpayClient struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
}

func NewRazorpayClient(keyID, keySecret string) Client {
	return &razorpayClient{
		client:    razorpay.NewClient(keyID, keySecret),
		keyID:     keyID,
		keySecret: keySecret,
	}
}

// CreateOrder opens a Razorpay order and returns its id. The SDK has no
// context support, so ctx is only checked before the call.
func (r *razorpayClient) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}

	if len(notes) > 0 {
		data["notes"] = notes
	}

	body, err := r.client.Order.Create(data, nil)
	if err != nil {
		return "", err
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("razorpay order response missing id")
	}

	return id, nil
}

// VerifyPaymentSignature checks HMAC-SHA256(order_id|payment_id) against the
// key secret.
func (r *razorpayClient) VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   gatewayOrderID,
		"razorpay_payment_id": paymentID,
	}

	return utils.VerifyPaymentSignature(params, signature, r.keySecret)
}

func (r *razorpayClient) KeyID() string {
	return r.keyID
}
