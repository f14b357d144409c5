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

type CouponHandler struct {
	couponService service.CouponService
	validator     *validator.Validate
}

func NewCouponHandler(couponService service.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService, validator: validator.New()}
}

// ValidateCoupon godoc
//
//	@Summary		Validate a coupon code
//	@Description	Resolves a code to its discount percentage. Attempts are rate limited per session.
//	@Tags			Coupons
//	@Accept			json
//	@Produce		json
//	@Param			coupon	body		models.ValidateCouponRequest	true	"Coupon"
//	@Success		200		{object}	models.CouponResponse
//	@Failure		400		{object}	response.ErrorResponse	"Invalid coupon"
//	@Failure		429		{object}	response.ErrorResponse	"Too many attempts"
//	@Router			/coupons/validate [post]
func (h *CouponHandler) ValidateCoupon() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		s, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req models.ValidateCouponRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid coupon input")
			return
		}

		coupon, err := h.couponService.ValidateForSession(r.Context(), s.ID, req.Code)
		if err != nil {
			logger.Warn("Coupon rejected", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Coupon accepted", slog.String("code", coupon.Code))
		response.Success(w, http.StatusOK, coupon)
	}
}
