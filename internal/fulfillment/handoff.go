package fulfillment

import (
	"context"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	"github.com/cenkalti/backoff/v4"
)

const (
	publishAttempts       = 5
	publishInitialBackoff = 200 * time.Millisecond
)

// Dispatcher hands a paid order over to fulfillment.
type Dispatcher interface {
	Dispatch(ctx context.Context, order *models.Order)
}

type Handoff struct {
	publisher Publisher
	mailer    Mailer
	attempts  uint64
	initial   time.Duration
}

func NewHandoff(publisher Publisher, mailer Mailer) *Handoff {
	if publisher == nil {
		publisher = NoopPublisher{}
	}

	return &Handoff{
		publisher: publisher,
		mailer:    mailer,
		attempts:  publishAttempts,
		initial:   publishInitialBackoff,
	}
}

// WithRetry overrides how often and how fast a failed publish is retried.
func (h *Handoff) WithRetry(attempts uint64, initial time.Duration) *Handoff {
	if attempts == 0 {
		attempts = 1
	}

	h.attempts = attempts
	h.initial = initial

	return h
}

// Dispatch is best effort. The payment is already settled when it runs, so
// failures are logged and never surface to the buyer.
func (h *Handoff) Dispatch(ctx context.Context, order *models.Order) {
	logger := middleware.LoggerFromContext(ctx).With(
		slog.String("orderId", order.ID.String()),
		slog.String("orderNumber", order.OrderNumber),
	)

	// the buyer's request may end before the broker answers
	ctx = context.WithoutCancel(ctx)

	if err := h.publish(ctx, order, logger); err != nil {
		logger.Error("Failed to publish order.paid event", slog.Any("error", err))
	} else {
		logger.Info("Order handed off to fulfillment")
	}

	if h.mailer == nil {
		return
	}

	if err := h.mailer.SendOrderConfirmation(ctx, order); err != nil {
		logger.Error("Failed to send order confirmation email", slog.Any("error", err))
	}
}

func (h *Handoff) publish(ctx context.Context, order *models.Order, logger *slog.Logger) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = h.initial
	policy.MaxElapsedTime = 0

	attempt := 0

	return backoff.Retry(func() error {
		attempt++

		err := h.publisher.PublishOrderPaid(ctx, order)
		if err != nil && uint64(attempt) < h.attempts {
			logger.Warn("Publishing order.paid failed, retrying", slog.Int("attempt", attempt), slog.Any("error", err))
		}

		return err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, h.attempts-1), ctx))
}
