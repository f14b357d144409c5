package fulfillment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventOrderPaid  = "order.paid"
	publishTimeout  = 5 * time.Second
	contentTypeJSON = "application/json"
)

type OrderPaidEvent struct {
	Event           string             `json:"event"`
	OrderID         uuid.UUID          `json:"order_id"`
	OrderNumber     string             `json:"order_number"`
	Customer        models.Customer    `json:"customer"`
	ShippingAddress models.Address     `json:"shipping_address"`
	Items           []models.OrderItem `json:"items"`
	Total           float64            `json:"total"`
	Gateway         string             `json:"gateway"`
	PaymentID       string             `json:"payment_id"`
	PaidAt          time.Time          `json:"paid_at"`
}

func NewOrderPaidEvent(order *models.Order) OrderPaidEvent {
	return OrderPaidEvent{
		Event:           EventOrderPaid,
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		Customer:        order.Customer,
		ShippingAddress: order.ShippingAddress,
		Items:           order.Items,
		Total:           order.Total,
		Gateway:         order.Gateway,
		PaymentID:       order.GatewayPaymentID,
		PaidAt:          order.UpdatedAt,
	}
}

type Publisher interface {
	PublishOrderPaid(ctx context.Context, order *models.Order) error
	Close()
}

type rabbitPublisher struct {
	pool      Pool
	queueName string
}

func NewPublisher(pool Pool, queueName string) Publisher {
	return &rabbitPublisher{pool: pool, queueName: queueName}
}

func (p *rabbitPublisher) PublishOrderPaid(ctx context.Context, order *models.Order) error {
	body, err := json.Marshal(NewOrderPaidEvent(order))
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	// bounds both the wait for a free channel and the publish
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	ch, err := p.pool.GetChannel(ctx)
	if err != nil {
		return fmt.Errorf("failed to get channel from pool: %w", err)
	}
	defer p.pool.ReturnChannel(ch)

	err = ch.PublishWithContext(ctx, "", p.queueName, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  contentTypeJSON,
		MessageId:    order.ID.String(),
		Type:         EventOrderPaid,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish order %s: %w", order.OrderNumber, err)
	}

	return nil
}

func (p *rabbitPublisher) Close() {
	p.pool.Close()
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderPaid(context.Context, *models.Order) error { return nil }

func (NoopPublisher) Close() {}
