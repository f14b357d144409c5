package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/errors"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	service "github.com/aaravmahajanofficial/artisan-storefront/internal/services"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/utils"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

const maxWebhookBytes = 65536

type PaymentHandler struct {
	paymentService service.PaymentService
	validator      *validator.Validate
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, validator: validator.New()}
}

// VerifyPayment godoc
//
//	@Summary		Verify a completed payment
//	@Description	Checks the gateway callback against the order's payment session. Verifying an already paid order succeeds with status already_verified.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Param			payment	body		models.VerifyPaymentRequest	true	"Gateway callback values"
//	@Success		200		{object}	models.VerifyPaymentResponse
//	@Failure		400		{object}	response.ErrorResponse	"Verification failed"
//	@Failure		404		{object}	response.ErrorResponse	"Unknown order"
//	@Failure		502		{object}	response.ErrorResponse	"Gateway unreachable"
//	@Router			/payments/verify [post]
func (h *PaymentHandler) VerifyPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.VerifyPaymentRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid payment verification input")
			return
		}

		logger = logger.With(slog.String("orderId", req.OrderID.String()))

		resp, err := h.paymentService.VerifyPayment(r.Context(), &req)
		if err != nil {
			logger.Error("Payment verification failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Payment verification handled", slog.String("status", string(resp.Status)))
		response.Success(w, http.StatusOK, resp)
	}
}

func (h *PaymentHandler) Capabilities() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, h.paymentService.Capabilities())
	}
}

// StripeWebhook godoc
//
//	@Summary		Stripe webhook
//	@Description	Receives payment_intent events signed with the configured webhook secret.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	response.APIResponse
//	@Failure		400	{object}	response.ErrorResponse	"Invalid payload or signature"
//	@Router			/payments/webhook [post]
func (h *PaymentHandler) StripeWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
		if err != nil {
			logger.Error("Failed to read webhook body", slog.Any("error", err))
			response.Error(w, errors.BadRequestError("Failed to read request body").WithError(err))
			return
		}
		defer r.Body.Close()

		signature := r.Header.Get("Stripe-Signature")
		if signature == "" {
			logger.Warn("Webhook without signature header")
			response.Error(w, errors.BadRequestError("Missing Stripe-Signature header"))
			return
		}

		if err := h.paymentService.HandleWebhook(r.Context(), payload, signature); err != nil {
			logger.Error("Webhook handling failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]bool{"received": true})
	}
}
