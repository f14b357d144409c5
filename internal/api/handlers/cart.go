package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	service "github.com/aaravmahajanofficial/artisan-storefront/internal/services"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/utils"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	cartService    service.CartService
	pricingService service.PricingService
	couponService  service.CouponService
	validator      *validator.Validate
}

func NewCartHandler(cartService service.CartService, pricingService service.PricingService, couponService service.CouponService) *CartHandler {
	return &CartHandler{
		cartService:    cartService,
		pricingService: pricingService,
		couponService:  couponService,
		validator:      validator.New(),
	}
}

// withQuote prices the confirmed cart. Every cart response carries its quote
// so the client never computes totals itself.
func (h *CartHandler) withQuote(r *http.Request, cart *models.Cart, discountPercent float64) (*models.CartResponse, error) {
	quote, err := h.pricingService.QuoteLines(r.Context(), cart.Lines, discountPercent)
	if err != nil {
		return nil, err
	}

	return &models.CartResponse{Cart: cart, Quote: quote}, nil
}

// GetCart godoc
//
//	@Summary		Get the session cart
//	@Description	Returns the confirmed cart with its price quote. An optional coupon code is applied to the quote.
//	@Tags			Cart
//	@Produce		json
//	@Param			coupon	query		string	false	"Coupon code"
//	@Success		200		{object}	models.CartResponse
//	@Failure		400		{object}	response.ErrorResponse	"Invalid coupon"
//	@Failure		429		{object}	response.ErrorResponse	"Too many coupon attempts"
//	@Router			/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		s, ok := requireSession(w, r)
		if !ok {
			return
		}

		cart, err := h.cartService.Load(r.Context(), s.ID)
		if err != nil {
			logger.Error("Failed to load cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		var discountPercent float64

		if code := strings.TrimSpace(r.URL.Query().Get("coupon")); code != "" {
			coupon, err := h.couponService.ValidateForSession(r.Context(), s.ID, code)
			if err != nil {
				logger.Warn("Coupon rejected for cart quote", slog.Any("error", err))
				response.Error(w, err)
				return
			}

			discountPercent = coupon.DiscountPercent
		}

		resp, err := h.withQuote(r, cart, discountPercent)
		if err != nil {
			logger.Error("Failed to price cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, resp)
	}
}

// AddItem godoc
//
//	@Summary		Add an item to the cart
//	@Description	Adds a product variant. Adding an existing variant increases its quantity.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.AddItemRequest	true	"Item"
//	@Success		200		{object}	models.CartResponse
//	@Failure		400		{object}	response.ErrorResponse	"Validation error"
//	@Failure		404		{object}	response.ErrorResponse	"Product not found"
//	@Failure		409		{object}	response.ErrorResponse	"Cart changed concurrently"
//	@Router			/cart/items [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		s, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add item input")
			return
		}

		logger = logger.With(slog.String("productId", req.ProductID.String()))

		cart, err := h.cartService.Add(r.Context(), s.ID, &req)
		if err != nil {
			logger.Error("Failed to add item to cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		resp, err := h.withQuote(r, cart, 0)
		if err != nil {
			response.Error(w, err)
			return
		}

		logger.Info("Item added to cart")
		response.Success(w, http.StatusOK, resp)
	}
}

// UpdateItem godoc
//
//	@Summary		Set an item quantity
//	@Description	Sets the quantity of a cart line. A quantity of zero removes the line.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.UpdateItemRequest	true	"Item"
//	@Success		200		{object}	models.CartResponse
//	@Failure		404		{object}	response.ErrorResponse	"Item not in cart"
//	@Failure		409		{object}	response.ErrorResponse	"Cart changed concurrently"
//	@Router			/cart/items [put]
func (h *CartHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		s, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req models.UpdateItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update item input")
			return
		}

		cart, err := h.cartService.Update(r.Context(), s.ID, &req)
		if err != nil {
			logger.Error("Failed to update cart item", slog.String("productId", req.ProductID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		resp, err := h.withQuote(r, cart, 0)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, resp)
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		s, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req models.RemoveItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid remove item input")
			return
		}

		cart, err := h.cartService.Remove(r.Context(), s.ID, &req)
		if err != nil {
			logger.Error("Failed to remove cart item", slog.String("productId", req.ProductID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		resp, err := h.withQuote(r, cart, 0)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, resp)
	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		s, ok := requireSession(w, r)
		if !ok {
			return
		}

		if err := h.cartService.Clear(r.Context(), s.ID); err != nil {
			logger.Error("Failed to clear cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart cleared")
		response.Success(w, http.StatusOK, &models.CartResponse{
			Cart:  &models.Cart{SessionID: s.ID, Lines: []models.CartLine{}},
			Quote: &models.Quote{Items: []models.QuoteItem{}},
		})
	}
}
