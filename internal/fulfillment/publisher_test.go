package fulfillment_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/fulfillment"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	err       error
	closed    bool
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _ string, key string, _, _ bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}

	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)

	return nil
}

func (c *fakeChannel) IsClosed() bool { return c.closed }

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

type fakePool struct {
	ch       *fakeChannel
	getErr   error
	returned int
	closed   bool
}

func (p *fakePool) GetChannel(context.Context) (fulfillment.Channel, error) {
	if p.getErr != nil {
		return nil, p.getErr
	}

	return p.ch, nil
}

func (p *fakePool) ReturnChannel(fulfillment.Channel) { p.returned++ }

func (p *fakePool) Close() { p.closed = true }

func paidOrder() *models.Order {
	return &models.Order{
		ID:          uuid.New(),
		OrderNumber: "HC20261018A1B2C3",
		Customer:    models.Customer{Name: "Asha", Email: "asha@example.com", Phone: "9876543210"},
		ShippingAddress: models.Address{
			AddressLine1: "12 Loom Street",
			City:         "Jaipur",
			State:        "Rajasthan",
			Pincode:      "302001",
		},
		Items: []models.OrderItem{
			{ProductID: uuid.New(), Name: "Block-print Scarf", Price: 800, Quantity: 2, Size: "M", Color: "Indigo"},
		},
		Subtotal:         1600,
		Discount:         240,
		Total:            1360,
		CouponCode:       "FESTIVE15",
		PaymentStatus:    models.PaymentStatusCompleted,
		CheckoutState:    models.CheckoutStatePaymentVerified,
		Gateway:          "razorpay",
		GatewayPaymentID: "pay_123",
		UpdatedAt:        time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC),
	}
}

func TestPublishOrderPaid(t *testing.T) {
	t.Run("Success - Persistent JSON Message", func(t *testing.T) {
		// Arrange
		ch := &fakeChannel{}
		pool := &fakePool{ch: ch}
		publisher := fulfillment.NewPublisher(pool, "orders.paid")
		order := paidOrder()

		// Act
		err := publisher.PublishOrderPaid(t.Context(), order)

		// Assert
		require.NoError(t, err)
		require.Len(t, ch.published, 1)
		assert.Equal(t, "orders.paid", ch.keys[0])
		assert.Equal(t, 1, pool.returned)

		msg := ch.published[0]
		assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
		assert.Equal(t, "application/json", msg.ContentType)
		assert.Equal(t, order.ID.String(), msg.MessageId)

		var event fulfillment.OrderPaidEvent
		require.NoError(t, json.Unmarshal(msg.Body, &event))
		assert.Equal(t, fulfillment.EventOrderPaid, event.Event)
		assert.Equal(t, order.ID, event.OrderID)
		assert.Equal(t, "pay_123", event.PaymentID)
		assert.InDelta(t, 1360.0, event.Total, 0.001)
		assert.Len(t, event.Items, 1)
	})

	t.Run("Failure - Pool Closed", func(t *testing.T) {
		pool := &fakePool{getErr: fulfillment.ErrPoolClosed}
		publisher := fulfillment.NewPublisher(pool, "orders.paid")

		err := publisher.PublishOrderPaid(t.Context(), paidOrder())

		require.ErrorIs(t, err, fulfillment.ErrPoolClosed)
		assert.Zero(t, pool.returned)
	})

	t.Run("Failure - Broker Rejects Publish", func(t *testing.T) {
		brokerErr := errors.New("channel/connection is not open")
		pool := &fakePool{ch: &fakeChannel{err: brokerErr}}
		publisher := fulfillment.NewPublisher(pool, "orders.paid")

		err := publisher.PublishOrderPaid(t.Context(), paidOrder())

		require.ErrorIs(t, err, brokerErr)
		assert.Contains(t, err.Error(), "HC20261018A1B2C3")
		assert.Equal(t, 1, pool.returned)
	})

	t.Run("Close releases the pool", func(t *testing.T) {
		pool := &fakePool{ch: &fakeChannel{}}

		fulfillment.NewPublisher(pool, "orders.paid").Close()

		assert.True(t, pool.closed)
	})
}

func TestNoopPublisher(t *testing.T) {
	var publisher fulfillment.Publisher = fulfillment.NoopPublisher{}

	assert.NoError(t, publisher.PublishOrderPaid(t.Context(), paidOrder()))
	assert.NotPanics(t, publisher.Close)
}
