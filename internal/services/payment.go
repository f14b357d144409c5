package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/config"
	appErrors "github.com/aaravmahajanofficial/artisan-storefront/internal/errors"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/fulfillment"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/metrics"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	repository "github.com/aaravmahajanofficial/artisan-storefront/internal/repositories"
	stripeClient "github.com/aaravmahajanofficial/artisan-storefront/pkg/stripe"
	"github.com/google/uuid"
)

type PaymentService interface {
	Capabilities() models.PaymentCapabilities
	// OpenSession asks the active gateway for a payment session covering the
	// order total and records the gateway order on the order.
	OpenSession(ctx context.Context, order *models.Order) (*models.PaymentSession, error)
	VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.VerifyPaymentResponse, error)
	RetryPayment(ctx context.Context, sessionID string, orderID uuid.UUID) (*models.CheckoutResult, error)
	ReportPaymentFailure(ctx context.Context, sessionID string, orderID uuid.UUID, req *models.PaymentFailureRequest) (*models.Order, error)
	AbandonPayment(ctx context.Context, sessionID string, orderID uuid.UUID) (*models.Order, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type paymentService struct {
	repo       repository.OrderRepository
	carts      CartService
	dispatcher fulfillment.Dispatcher
	gateways   map[string]Gateway
	active     Gateway
	webhooks   stripeClient.Client
	currency   string
	now        func() time.Time
}

// NewPaymentService wires the configured provider. The test gateway replaces
// it only when cfg.MockEnabled is set; clients have no way to ask for it.
func NewPaymentService(
	repo repository.OrderRepository,
	carts CartService,
	dispatcher fulfillment.Dispatcher,
	cfg config.Payment,
	webhooks stripeClient.Client,
	gateways ...Gateway,
) (PaymentService, error) {
	s := &paymentService{
		repo:       repo,
		carts:      carts,
		dispatcher: dispatcher,
		gateways:   make(map[string]Gateway, len(gateways)+1),
		webhooks:   webhooks,
		currency:   cfg.Currency,
		now:        time.Now,
	}

	for _, g := range gateways {
		s.gateways[g.Name()] = g
	}

	if cfg.MockEnabled {
		s.gateways[GatewayMock] = NewMockGateway()
		s.active = s.gateways[GatewayMock]

		return s, nil
	}

	active, ok := s.gateways[cfg.Provider]
	if !ok {
		return nil, errors.New("no gateway configured for payment provider " + cfg.Provider)
	}

	s.active = active

	return s, nil
}

func (s *paymentService) Capabilities() models.PaymentCapabilities {
	caps := models.PaymentCapabilities{
		Provider:    s.active.Name(),
		Currency:    s.currency,
		MockEnabled: s.active.Name() == GatewayMock,
	}

	if k, ok := s.active.(interface{ KeyID() string }); ok {
		caps.KeyID = k.KeyID()
	}

	return caps
}

func (s *paymentService) OpenSession(ctx context.Context, order *models.Order) (*models.PaymentSession, error) {
	logger := middleware.LoggerFromContext(ctx).With(slog.String("orderId", order.ID.String()))

	// the only place a major-unit amount becomes a gateway amount
	amount := MinorUnits(order.Total)

	session, err := s.active.CreateSession(ctx, order, amount, s.currency)
	if err != nil {
		logger.Error("Gateway failed to open payment session", slog.String("gateway", s.active.Name()), slog.Any("error", err))
		return nil, appErrors.NetworkError("Could not start payment, please retry").WithError(err)
	}

	attached, err := s.repo.AttachGatewayOrder(ctx, order.ID, s.active.Name(), session.GatewayOrderID,
		models.SourcesOf(models.CheckoutStatePaymentInitiated))
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to record payment session").WithError(err)
	}

	if !attached {
		return nil, appErrors.ConflictError("Order can no longer accept payment")
	}

	order.Gateway = s.active.Name()
	order.GatewayOrderID = session.GatewayOrderID
	order.GatewayOrderIDs = append(order.GatewayOrderIDs, session.GatewayOrderID)
	order.CheckoutState = models.CheckoutStatePaymentInitiated

	logger.Info("Payment session opened", slog.String("gateway", order.Gateway), slog.String("gatewayOrderId", session.GatewayOrderID))

	return session, nil
}

func (s *paymentService) VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.VerifyPaymentResponse, error) {
	logger := middleware.LoggerFromContext(ctx).With(slog.String("orderId", req.OrderID.String()))

	order, err := s.repo.GetOrderByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, appErrors.InvalidOrderError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	if order.PaymentStatus == models.PaymentStatusCompleted {
		metrics.RecordPaymentVerification(order.Gateway, metrics.OutcomeRepeated)
		return alreadyVerified(order), nil
	}

	// a late callback for a session opened before a retry is still honored;
	// a rejected callback never moves the order, only the gateway's own
	// failure report does
	gateway, ok := s.gateways[order.Gateway]
	if !ok || !order.IssuedGatewayOrder(req.GatewayOrderID) {
		logger.Warn("Payment callback does not match the order's gateway session", slog.String("gatewayOrderId", req.GatewayOrderID))
		metrics.RecordPaymentVerification(order.Gateway, metrics.OutcomeRejected)

		return nil, appErrors.PaymentVerificationFailedError("Payment verification failed")
	}

	if err := gateway.Verify(ctx, order, MinorUnits(order.Total), req); err != nil {
		if errors.Is(err, ErrPaymentRejected) {
			logger.Warn("Payment signature rejected", slog.String("gateway", gateway.Name()))
			metrics.RecordPaymentVerification(gateway.Name(), metrics.OutcomeRejected)

			return nil, appErrors.PaymentVerificationFailedError("Payment verification failed").WithError(err)
		}

		metrics.RecordPaymentVerification(gateway.Name(), metrics.OutcomeError)

		return nil, appErrors.NetworkError("Could not reach the payment gateway, please retry").WithError(err)
	}

	return s.complete(ctx, order, req.PaymentID)
}

// complete flips payment to completed exactly once. Only the caller that wins
// the conditional update clears the cart and hands the order off.
func (s *paymentService) complete(ctx context.Context, order *models.Order, paymentID string) (*models.VerifyPaymentResponse, error) {
	logger := middleware.LoggerFromContext(ctx).With(slog.String("orderId", order.ID.String()))

	won, err := s.repo.MarkPaymentCompleted(ctx, order.ID, paymentID)
	if err != nil {
		metrics.RecordPaymentVerification(order.Gateway, metrics.OutcomeError)
		return nil, appErrors.DatabaseError("Failed to record payment").WithError(err)
	}

	if !won {
		metrics.RecordPaymentVerification(order.Gateway, metrics.OutcomeRepeated)
		return alreadyVerified(order), nil
	}

	order.PaymentStatus = models.PaymentStatusCompleted
	order.CheckoutState = models.CheckoutStatePaymentVerified
	order.GatewayPaymentID = paymentID
	order.UpdatedAt = s.now().UTC()

	metrics.RecordPaymentVerification(order.Gateway, metrics.OutcomeSuccess)
	logger.Info("Payment verified", slog.String("gateway", order.Gateway), slog.String("paymentId", paymentID))

	resp := &models.VerifyPaymentResponse{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      models.VerificationVerified,
		CartCleared: true,
	}

	if err := s.carts.Clear(ctx, order.SessionID); err != nil {
		// payment is settled; a stale cart is recoverable by the buyer
		logger.Error("Failed to clear cart after payment", slog.Any("error", err))
		resp.CartCleared = false
	}

	s.dispatcher.Dispatch(ctx, order)

	return resp, nil
}

func alreadyVerified(order *models.Order) *models.VerifyPaymentResponse {
	return &models.VerifyPaymentResponse{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      models.VerificationAlreadyVerified,
	}
}

func (s *paymentService) markFailed(ctx context.Context, order *models.Order) {
	if _, err := s.repo.UpdateCheckoutState(ctx, order.ID, models.SourcesOf(models.CheckoutStatePaymentFailed), models.CheckoutStatePaymentFailed); err != nil {
		middleware.LoggerFromContext(ctx).Error("Failed to record payment failure", slog.String("orderId", order.ID.String()), slog.Any("error", err))
	}
}

// ownOrder hides orders of other sessions behind the same error as a missing
// order.
func (s *paymentService) ownOrder(ctx context.Context, sessionID string, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, appErrors.InvalidOrderError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	if order.SessionID != sessionID {
		return nil, appErrors.InvalidOrderError("Order not found")
	}

	return order, nil
}

func (s *paymentService) RetryPayment(ctx context.Context, sessionID string, orderID uuid.UUID) (*models.CheckoutResult, error) {
	order, err := s.ownOrder(ctx, sessionID, orderID)
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus == models.PaymentStatusCompleted {
		return nil, appErrors.ConflictError("Order is already paid")
	}

	if !order.CheckoutState.CanTransitionTo(models.CheckoutStatePaymentInitiated) {
		return nil, appErrors.ConflictError("Order can no longer accept payment")
	}

	result := &models.CheckoutResult{OrderID: order.ID, OrderNumber: order.OrderNumber, Total: order.Total}

	session, err := s.OpenSession(ctx, order)
	if err != nil {
		result.Reason = err.Error()
		return result, err
	}

	result.Success = true
	result.PaymentSession = session

	return result, nil
}

func (s *paymentService) ReportPaymentFailure(ctx context.Context, sessionID string, orderID uuid.UUID, req *models.PaymentFailureRequest) (*models.Order, error) {
	order, err := s.ownOrder(ctx, sessionID, orderID)
	if err != nil {
		return nil, err
	}

	if order.GatewayOrderID != req.GatewayOrderID {
		return nil, appErrors.BadRequestError("Payment session does not belong to this order")
	}

	if err := s.transition(ctx, order, models.CheckoutStatePaymentFailed); err != nil {
		return nil, err
	}

	middleware.LoggerFromContext(ctx).Info("Gateway reported payment failure",
		slog.String("orderId", order.ID.String()),
		slog.String("reason", req.Reason),
	)

	return order, nil
}

func (s *paymentService) AbandonPayment(ctx context.Context, sessionID string, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.ownOrder(ctx, sessionID, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.transition(ctx, order, models.CheckoutStateOrderAbandoned); err != nil {
		return nil, err
	}

	middleware.LoggerFromContext(ctx).Info("Payment dismissed by buyer", slog.String("orderId", order.ID.String()))

	return order, nil
}

func (s *paymentService) transition(ctx context.Context, order *models.Order, to models.CheckoutState) error {
	if order.PaymentStatus == models.PaymentStatusCompleted {
		return appErrors.ConflictError("Order is already paid")
	}

	if !order.CheckoutState.CanTransitionTo(to) {
		return appErrors.ConflictError("Order is not awaiting payment")
	}

	changed, err := s.repo.UpdateCheckoutState(ctx, order.ID, models.SourcesOf(to), to)
	if err != nil {
		return appErrors.DatabaseError("Failed to update order").WithError(err)
	}

	if !changed {
		return appErrors.ConflictError("Order is not awaiting payment")
	}

	order.CheckoutState = to
	order.UpdatedAt = s.now().UTC()

	return nil
}

// HandleWebhook settles Stripe payments the buyer's browser never reported.
// Events for unknown or already settled orders are acknowledged and ignored.
func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	logger := middleware.LoggerFromContext(ctx)

	if s.webhooks == nil {
		return appErrors.NotFoundError("Webhooks are not enabled")
	}

	event, err := s.webhooks.VerifyWebhookSignature(payload, signature)
	if err != nil {
		return appErrors.BadRequestError("Webhook signature verification failed").WithError(err)
	}

	switch string(event.Type) {
	case stripeClient.EventPaymentIntentSucceeded, stripeClient.EventPaymentIntentFailed:
	default:
		logger.Debug("Ignoring webhook event", slog.String("type", string(event.Type)))
		return nil
	}

	intentID, _ := event.Data.Object["id"].(string)
	if intentID == "" {
		return appErrors.BadRequestError("Missing payment intent ID in webhook")
	}

	order, err := s.repo.GetOrderByGatewayOrderID(ctx, intentID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			logger.Warn("Webhook for unknown payment intent", slog.String("intentId", intentID))
			return nil
		}

		return appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	if order.Gateway != GatewayStripe || order.PaymentStatus == models.PaymentStatusCompleted {
		return nil
	}

	if string(event.Type) == stripeClient.EventPaymentIntentFailed {
		s.markFailed(ctx, order)
		return nil
	}

	if _, err := s.complete(ctx, order, latestChargeID(event.Data.Object)); err != nil {
		return err
	}

	return nil
}

// latest_charge arrives as an id or as an expanded object.
func latestChargeID(intent map[string]interface{}) string {
	switch charge := intent["latest_charge"].(type) {
	case string:
		return charge
	case map[string]interface{}:
		id, _ := charge["id"].(string)
		return id
	}

	return ""
}
