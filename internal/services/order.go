package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/artisan-storefront/internal/errors"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/metrics"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	repository "github.com/aaravmahajanofficial/artisan-storefront/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type OrderService interface {
	// Checkout is the single entry point from a session's cart to an open
	// payment session. When the order was written but the gateway failed, the
	// result still carries the order so payment can be retried.
	Checkout(ctx context.Context, sessionID string, req *models.CheckoutRequest) (*models.CheckoutResult, error)
	GetOrder(ctx context.Context, sessionID string, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, filter models.OrderListFilter) ([]*models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, req *models.UpdateOrderStatusRequest) (*models.Order, error)
}

type orderService struct {
	repo      repository.OrderRepository
	carts     CartService
	catalog   CatalogService
	coupons   CouponService
	payments  PaymentService
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	prefix    string
	now       func() time.Time
}

func NewOrderService(
	repo repository.OrderRepository,
	carts CartService,
	catalog CatalogService,
	coupons CouponService,
	payments PaymentService,
	numberPrefix string,
) OrderService {
	return &orderService{
		repo:      repo,
		carts:     carts,
		catalog:   catalog,
		coupons:   coupons,
		payments:  payments,
		validator: validator.New(),
		sanitizer: bluemonday.StrictPolicy(),
		prefix:    numberPrefix,
		now:       time.Now,
	}
}

func (s *orderService) Checkout(ctx context.Context, sessionID string, req *models.CheckoutRequest) (*models.CheckoutResult, error) {
	logger := middleware.LoggerFromContext(ctx)

	order, release, err := s.draft(ctx, sessionID, req)
	if err != nil {
		metrics.RecordCheckout(metrics.OutcomeRejected)
		return nil, err
	}
	// the cart stays held until the payment session is open, so no mutation
	// can slip between the snapshot and the order
	defer release()

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		metrics.RecordCheckout(metrics.OutcomeError)
		return nil, appErrors.DatabaseError("Failed to create order").WithError(err)
	}

	logger = logger.With(slog.String("orderId", order.ID.String()), slog.String("orderNumber", order.OrderNumber))
	logger.Info("Order created", slog.Float64("total", order.Total))

	result := &models.CheckoutResult{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Total:       order.Total,
	}

	session, err := s.payments.OpenSession(ctx, order)
	if err != nil {
		// the order stays in ORDER_CREATED and can be retried
		metrics.RecordCheckout(metrics.OutcomeError)
		result.Reason = err.Error()

		return result, err
	}

	metrics.RecordCheckout(metrics.OutcomeSuccess)

	result.Success = true
	result.PaymentSession = session

	return result, nil
}

// draft runs every DRAFT check and builds the order snapshot. Nothing is
// written until all of them pass. On success the session's cart is still held
// and the caller must call release.
func (s *orderService) draft(ctx context.Context, sessionID string, req *models.CheckoutRequest) (*models.Order, func(), error) {
	if err := s.validator.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			first := validationErrs[0]
			return nil, nil, appErrors.AddValidationError(first.Field(), first.Tag()).WithError(err)
		}

		return nil, nil, appErrors.ValidationError("Invalid checkout details").WithError(err)
	}

	customer, address, err := s.sanitize(req)
	if err != nil {
		return nil, nil, err
	}

	cart, release, err := s.carts.Hold(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	order, err := s.snapshot(ctx, sessionID, req, cart, customer, address)
	if err != nil {
		release()
		return nil, nil, err
	}

	return order, release, nil
}

func (s *orderService) snapshot(
	ctx context.Context,
	sessionID string,
	req *models.CheckoutRequest,
	cart *models.Cart,
	customer models.Customer,
	address models.Address,
) (*models.Order, error) {
	if cart.IsEmpty() {
		return nil, appErrors.ValidationError("Your cart is empty")
	}

	products, err := s.resolveForCheckout(ctx, cart.Lines)
	if err != nil {
		return nil, err
	}

	var (
		discountPercent float64
		couponCode      string
	)

	if strings.TrimSpace(req.CouponCode) != "" {
		coupon, err := s.coupons.Validate(ctx, req.CouponCode)
		if err != nil {
			return nil, err
		}

		discountPercent = coupon.DiscountPercent
		couponCode = coupon.Code
	}

	quote := Quote(cart.Lines, products, discountPercent)

	items := make([]models.OrderItem, 0, len(quote.Items))
	for _, item := range quote.Items {
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.UnitPrice,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
		})
	}

	if !models.CheckoutStateDraft.CanTransitionTo(models.CheckoutStateOrderCreated) {
		return nil, appErrors.InternalError("Checkout is unavailable")
	}

	now := s.now().UTC()

	return &models.Order{
		ID:              uuid.New(),
		OrderNumber:     s.orderNumber(now),
		SessionID:       sessionID,
		Customer:        customer,
		ShippingAddress: address,
		Items:           items,
		Subtotal:        quote.Subtotal,
		Discount:        quote.Discount,
		Total:           quote.Total,
		CouponCode:      couponCode,
		PaymentStatus:   models.PaymentStatusPending,
		Status:          models.OrderStatusPending,
		CheckoutState:   models.CheckoutStateOrderCreated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// resolveForCheckout is stricter than pricing: a line that no longer resolves
// or exceeds stock blocks the order instead of being skipped.
func (s *orderService) resolveForCheckout(ctx context.Context, lines []models.CartLine) (map[uuid.UUID]*models.Product, error) {
	products := make(map[uuid.UUID]*models.Product, len(lines))
	wanted := make(map[uuid.UUID]int, len(lines))

	for _, line := range lines {
		wanted[line.ProductID] += line.Quantity

		if _, ok := products[line.ProductID]; ok {
			continue
		}

		product, err := s.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			if appErrors.HasCode(err, appErrors.ErrCodeNotFound) {
				return nil, appErrors.ValidationError("An item in your cart is no longer available").
					WithDetail(line.ProductID.String()).WithError(err)
			}

			return nil, err
		}

		products[line.ProductID] = product
	}

	for id, qty := range wanted {
		if product := products[id]; qty > product.Stock {
			return nil, appErrors.ValidationError(fmt.Sprintf("Only %d of %s left in stock", product.Stock, product.Name)).
				WithDetail(id.String())
		}
	}

	return products, nil
}

func (s *orderService) sanitize(req *models.CheckoutRequest) (models.Customer, models.Address, error) {
	clean := func(v string) string {
		return strings.TrimSpace(s.sanitizer.Sanitize(v))
	}

	customer := models.Customer{
		Name:  clean(req.Name),
		Email: strings.TrimSpace(req.Email),
		Phone: req.Phone,
	}

	address := models.Address{
		AddressLine1: clean(req.ShippingAddress.AddressLine1),
		AddressLine2: clean(req.ShippingAddress.AddressLine2),
		City:         clean(req.ShippingAddress.City),
		State:        clean(req.ShippingAddress.State),
		Pincode:      req.ShippingAddress.Pincode,
	}

	switch {
	case customer.Name == "":
		return customer, address, appErrors.AddValidationError("customer_name", "required")
	case address.AddressLine1 == "":
		return customer, address, appErrors.AddValidationError("address_line1", "required")
	case address.City == "":
		return customer, address, appErrors.AddValidationError("city", "required")
	case address.State == "":
		return customer, address, appErrors.AddValidationError("state", "required")
	}

	return customer, address, nil
}

// orderNumber is <prefix><yyyymmdd><6 upper-case hex>.
func (s *orderService) orderNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])

	return s.prefix + at.Format("20060102") + suffix
}

func (s *orderService) GetOrder(ctx context.Context, sessionID string, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	if order.SessionID != sessionID {
		return nil, appErrors.NotFoundError("Order not found")
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter models.OrderListFilter) ([]*models.Order, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}

	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}

	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	orders, total, err := s.repo.ListOrders(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}

// UpdateOrderStatus is the admin workflow. Payment status and checkout state
// are never touched here.
func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, req *models.UpdateOrderStatusRequest) (*models.Order, error) {
	order, err := s.repo.UpdateOrderStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to update order status").WithError(err)
	}

	middleware.LoggerFromContext(ctx).Info("Order status updated",
		slog.String("orderId", id.String()),
		slog.String("status", string(req.Status)),
	)

	return order, nil
}
