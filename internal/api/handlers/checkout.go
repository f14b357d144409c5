package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	service "github.com/aaravmahajanofficial/artisan-storefront/internal/services"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/utils"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CheckoutHandler struct {
	orderService service.OrderService
	validator    *validator.Validate
}

func NewCheckoutHandler(orderService service.OrderService) *CheckoutHandler {
	return &CheckoutHandler{orderService: orderService, validator: validator.New()}
}

// Checkout godoc
//
//	@Summary		Place an order from the session cart
//	@Description	Validates the cart and customer details, snapshots prices into an order and opens a payment session.
//	@Description	When the order was created but the gateway failed, the error envelope still carries the order so payment can be retried.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			checkout	body		models.CheckoutRequest	true	"Customer and shipping details"
//	@Success		201			{object}	models.CheckoutResult
//	@Failure		400			{object}	response.ErrorResponse	"Validation error, empty cart or invalid coupon"
//	@Failure		502			{object}	response.ErrorResponse	"Payment gateway unavailable"
//	@Router			/checkout [post]
func (h *CheckoutHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		s, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req models.CheckoutRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid checkout input")
			return
		}

		result, err := h.orderService.Checkout(r.Context(), s.ID, &req)
		if err != nil {
			logger.Error("Checkout failed", slog.Any("error", err))

			if result != nil {
				response.ErrorWithData(w, err, result)
				return
			}

			response.Error(w, err)
			return
		}

		logger.Info("Checkout completed", slog.String("orderId", result.OrderID.String()))
		response.Success(w, http.StatusCreated, result)
	}
}
