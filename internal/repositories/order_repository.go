package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetOrderByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error)
	AttachGatewayOrder(ctx context.Context, id uuid.UUID, gateway, gatewayOrderID string, from []models.CheckoutState) (bool, error)
	UpdateCheckoutState(ctx context.Context, id uuid.UUID, from []models.CheckoutState, to models.CheckoutState) (bool, error)
	MarkPaymentCompleted(ctx context.Context, id uuid.UUID, gatewayPaymentID string) (bool, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
	ListOrders(ctx context.Context, filter models.OrderListFilter) ([]*models.Order, int, error)
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

const orderColumns = `id, order_number, session_id, customer_name, customer_email, customer_phone,
		       shipping_address, items, subtotal, discount, total, coupon_code,
		       payment_status, order_status, checkout_state, gateway, gateway_order_id,
		       gateway_order_ids, gateway_payment_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	order := &models.Order{}

	var (
		addressJSON, itemsJSON                           []byte
		couponCode, gateway, gatewayOrder, gatewayPayment sql.NullString
	)

	err := row.Scan(
		&order.ID, &order.OrderNumber, &order.SessionID,
		&order.Customer.Name, &order.Customer.Email, &order.Customer.Phone,
		&addressJSON, &itemsJSON, &order.Subtotal, &order.Discount, &order.Total, &couponCode,
		&order.PaymentStatus, &order.Status, &order.CheckoutState, &gateway, &gatewayOrder,
		pq.Array(&order.GatewayOrderIDs), &gatewayPayment, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(addressJSON, &order.ShippingAddress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shipping address: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}

	order.CouponCode = couponCode.String
	order.Gateway = gateway.String
	order.GatewayOrderID = gatewayOrder.String
	order.GatewayPaymentID = gatewayPayment.String

	return order, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreateOrder persists the order snapshot in one statement. Items are stored
// as JSONB so they cannot drift from the catalog afterwards.
func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	addressJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping address: %w", err)
	}

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	query := `
		INSERT INTO orders (id, order_number, session_id, customer_name, customer_email, customer_phone,
		                    shipping_address, items, subtotal, discount, total, coupon_code,
		                    payment_status, order_status, checkout_state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err = r.DB.QueryRowContext(dbCtx, query,
		order.ID, order.OrderNumber, order.SessionID,
		order.Customer.Name, order.Customer.Email, order.Customer.Phone,
		addressJSON, itemsJSON, order.Subtotal, order.Discount, order.Total, nullString(order.CouponCode),
		order.PaymentStatus, order.Status, order.CheckoutState,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}

		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	return order, nil
}

// GetOrderByGatewayOrderID matches any gateway order ever issued for the
// order, not only the current one.
func (r *orderRepository) GetOrderByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + orderColumns + ` FROM orders WHERE gateway_order_id = $1 OR $1 = ANY(gateway_order_ids)`

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx, query, gatewayOrderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}

		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	return order, nil
}

func stateStrings(states []models.CheckoutState) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = string(s)
	}

	return out
}

func rowsChanged(result sql.Result) (bool, error) {
	updatedRows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get updated rows: %w", err)
	}

	return updatedRows > 0, nil
}

// AttachGatewayOrder records the gateway order id as current, appends it to
// the order's issued ids and moves the order to PAYMENT_INITIATED, provided it
// is still pending and in one of the from states.
func (r *orderRepository) AttachGatewayOrder(ctx context.Context, id uuid.UUID, gateway, gatewayOrderID string, from []models.CheckoutState) (bool, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE orders
		SET gateway = $1, gateway_order_id = $2, gateway_order_ids = array_append(gateway_order_ids, $2),
		    checkout_state = $3, updated_at = NOW()
		WHERE id = $4 AND payment_status = $5 AND checkout_state = ANY($6)
	`

	result, err := r.DB.ExecContext(dbCtx, query, gateway, gatewayOrderID, models.CheckoutStatePaymentInitiated,
		id, models.PaymentStatusPending, pq.Array(stateStrings(from)))
	if err != nil {
		return false, fmt.Errorf("failed to attach gateway order: %w", err)
	}

	return rowsChanged(result)
}

func (r *orderRepository) UpdateCheckoutState(ctx context.Context, id uuid.UUID, from []models.CheckoutState, to models.CheckoutState) (bool, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE orders
		SET checkout_state = $1, updated_at = NOW()
		WHERE id = $2 AND payment_status = $3 AND checkout_state = ANY($4)
	`

	result, err := r.DB.ExecContext(dbCtx, query, to, id, models.PaymentStatusPending, pq.Array(stateStrings(from)))
	if err != nil {
		return false, fmt.Errorf("failed to update checkout state: %w", err)
	}

	return rowsChanged(result)
}

// MarkPaymentCompleted flips payment_status from pending to completed. It
// reports false when another caller already completed the order.
func (r *orderRepository) MarkPaymentCompleted(ctx context.Context, id uuid.UUID, gatewayPaymentID string) (bool, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE orders
		SET payment_status = $1, gateway_payment_id = $2, checkout_state = $3, updated_at = NOW()
		WHERE id = $4 AND payment_status = $5
	`

	result, err := r.DB.ExecContext(dbCtx, query, models.PaymentStatusCompleted, gatewayPaymentID,
		models.CheckoutStatePaymentVerified, id, models.PaymentStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to mark payment completed: %w", err)
	}

	return rowsChanged(result)
}

// UpdateOrderStatus changes the fulfillment status only.
func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE orders SET order_status = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + orderColumns

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}

		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return order, nil
}

// ListOrders pages through orders newest first. An empty payment status
// matches every order.
func (r *orderRepository) ListOrders(ctx context.Context, filter models.OrderListFilter) ([]*models.Order, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM orders WHERE ($1::text = '' OR payment_status = $1::text)`
	if err := r.DB.QueryRowContext(dbCtx, countQuery, string(filter.PaymentStatus)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ($1::text = '' OR payment_status = $1::text)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.DB.QueryContext(dbCtx, query, string(filter.PaymentStatus), filter.PageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*models.Order, 0, filter.PageSize)

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan the orders: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}
