package repository_test

import (
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	repository "github.com/aaravmahajanofficial/artisan-storefront/internal/repositories"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderColumns = []string{
	"id", "order_number", "session_id", "customer_name", "customer_email", "customer_phone",
	"shipping_address", "items", "subtotal", "discount", "total", "coupon_code",
	"payment_status", "order_status", "checkout_state", "gateway", "gateway_order_id",
	"gateway_order_ids", "gateway_payment_id", "created_at", "updated_at",
}

func setupOrderRepoTest(t *testing.T) (repository.OrderRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	repo := repository.NewOrderRepository(db)
	require.NotNil(t, repo, "NewOrderRepository should return a non-nil repository")

	return repo, mock
}

func testOrder() *models.Order {
	return &models.Order{
		ID:          uuid.New(),
		OrderNumber: "HC20261018A1B2C3",
		SessionID:   "session_0123456789abcdef0123456789abcdef",
		Customer:    models.Customer{Name: "Asha Rao", Email: "asha@example.com", Phone: "9876543210"},
		ShippingAddress: models.Address{
			AddressLine1: "12 Weavers Lane",
			City:         "Jaipur",
			State:        "Rajasthan",
			Pincode:      "302001",
		},
		Items: []models.OrderItem{
			{ProductID: uuid.New(), Name: "Block-print kurta", Price: 800, Quantity: 2, Size: "M"},
		},
		Subtotal:      1600,
		Discount:      240,
		Total:         1360,
		CouponCode:    "SAVE15",
		PaymentStatus: models.PaymentStatusPending,
		Status:        models.OrderStatusPending,
		CheckoutState: models.CheckoutStateOrderCreated,
	}
}

func orderRow(t *testing.T, o *models.Order) *sqlmock.Rows {
	t.Helper()

	addressJSON, err := json.Marshal(o.ShippingAddress)
	require.NoError(t, err)
	itemsJSON, err := json.Marshal(o.Items)
	require.NoError(t, err)

	nullable := func(s string) any {
		if s == "" {
			return nil
		}

		return s
	}

	now := time.Now()

	return sqlmock.NewRows(orderColumns).AddRow(
		o.ID.String(), o.OrderNumber, o.SessionID, o.Customer.Name, o.Customer.Email, o.Customer.Phone,
		addressJSON, itemsJSON, o.Subtotal, o.Discount, o.Total, nullable(o.CouponCode),
		string(o.PaymentStatus), string(o.Status), string(o.CheckoutState), nullable(o.Gateway),
		nullable(o.GatewayOrderID), "{"+strings.Join(o.GatewayOrderIDs, ",")+"}", nullable(o.GatewayPaymentID), now, now,
	)
}

func TestNewOrderRepository(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewOrderRepository(db)
	assert.NotNil(t, repo, "NewOrderRepository should return a non-nil repository")
}

func TestCreateOrder(t *testing.T) {
	ctx := t.Context()
	insertSQL := regexp.QuoteMeta("INSERT INTO orders (id, order_number, session_id")

	t.Run("Success - Create Order", func(t *testing.T) {
		// Arrange
		repo, mock := setupOrderRepoTest(t)
		order := testOrder()
		now := time.Now()

		mock.ExpectQuery(insertSQL).
			WithArgs(order.ID, order.OrderNumber, order.SessionID, order.Customer.Name, order.Customer.Email,
				order.Customer.Phone, sqlmock.AnyArg(), sqlmock.AnyArg(), order.Subtotal, order.Discount, order.Total,
				"SAVE15", order.PaymentStatus, order.Status, order.CheckoutState).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		// Act
		err := repo.CreateOrder(ctx, order)

		// Assert
		require.NoError(t, err, "CreateOrder should succeed")
		assert.Equal(t, now, order.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Without Coupon", func(t *testing.T) {
		// Arrange
		repo, mock := setupOrderRepoTest(t)
		order := testOrder()
		order.CouponCode = ""
		now := time.Now()

		mock.ExpectQuery(insertSQL).
			WithArgs(order.ID, order.OrderNumber, order.SessionID, order.Customer.Name, order.Customer.Email,
				order.Customer.Phone, sqlmock.AnyArg(), sqlmock.AnyArg(), order.Subtotal, order.Discount, order.Total,
				nil, order.PaymentStatus, order.Status, order.CheckoutState).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		// Act
		err := repo.CreateOrder(ctx, order)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Order Insert Error", func(t *testing.T) {
		// Arrange
		repo, mock := setupOrderRepoTest(t)
		dbErr := errors.New("DB error on order insert")
		mock.ExpectQuery(insertSQL).WillReturnError(dbErr)

		// Act
		err := repo.CreateOrder(ctx, testOrder())

		// Assert
		require.Error(t, err, "CreateOrder should fail when order insert fails")
		assert.ErrorContains(t, err, "failed to insert order")
		assert.ErrorIs(t, err, dbErr, "Error should wrap the original DB error")
	})
}

func TestGetOrderByID(t *testing.T) {
	ctx := t.Context()
	selectSQL := regexp.QuoteMeta("FROM orders WHERE id = $1")

	t.Run("Success - Order Found", func(t *testing.T) {
		// Arrange
		repo, mock := setupOrderRepoTest(t)
		expected := testOrder()
		expected.Gateway = "razorpay"
		expected.GatewayOrderID = "order_Abc123"
		mock.ExpectQuery(selectSQL).WithArgs(expected.ID).WillReturnRows(orderRow(t, expected))

		// Act
		order, err := repo.GetOrderByID(ctx, expected.ID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, expected.ID, order.ID)
		assert.Equal(t, expected.Items, order.Items)
		assert.Equal(t, expected.ShippingAddress, order.ShippingAddress)
		assert.Equal(t, expected.CouponCode, order.CouponCode)
		assert.Equal(t, "order_Abc123", order.GatewayOrderID)
		assert.Empty(t, order.GatewayPaymentID)
		assert.Equal(t, models.CheckoutStateOrderCreated, order.CheckoutState)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		repo, mock := setupOrderRepoTest(t)
		id := uuid.New()
		mock.ExpectQuery(selectSQL).WithArgs(id).WillReturnError(sql.ErrNoRows)

		// Act
		order, err := repo.GetOrderByID(ctx, id)

		// Assert
		assert.Nil(t, order)
		assert.ErrorIs(t, err, repository.ErrRecordNotFound)
	})
}

func TestGetOrderByGatewayOrderID(t *testing.T) {
	lookupSQL := regexp.QuoteMeta("FROM orders WHERE gateway_order_id = $1 OR $1 = ANY(gateway_order_ids)")

	t.Run("Success - Current Session", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		expected := testOrder()
		expected.GatewayOrderID = "pi_123"
		expected.GatewayOrderIDs = []string{"pi_123"}
		mock.ExpectQuery(lookupSQL).
			WithArgs("pi_123").
			WillReturnRows(orderRow(t, expected))

		order, err := repo.GetOrderByGatewayOrderID(t.Context(), "pi_123")

		require.NoError(t, err)
		assert.Equal(t, expected.ID, order.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Earlier Session After Retry", func(t *testing.T) {
		// Arrange
		repo, mock := setupOrderRepoTest(t)
		expected := testOrder()
		expected.GatewayOrderID = "pi_456"
		expected.GatewayOrderIDs = []string{"pi_123", "pi_456"}
		mock.ExpectQuery(lookupSQL).
			WithArgs("pi_123").
			WillReturnRows(orderRow(t, expected))

		// Act
		order, err := repo.GetOrderByGatewayOrderID(t.Context(), "pi_123")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "pi_456", order.GatewayOrderID)
		assert.Equal(t, []string{"pi_123", "pi_456"}, order.GatewayOrderIDs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAttachGatewayOrder(t *testing.T) {
	ctx := t.Context()
	updateSQL := regexp.QuoteMeta("SET gateway = $1, gateway_order_id = $2, gateway_order_ids = array_append(gateway_order_ids, $2), checkout_state = $3")
	from := []models.CheckoutState{models.CheckoutStateOrderCreated}

	t.Run("Success - Attached", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		id := uuid.New()
		mock.ExpectExec(updateSQL).
			WithArgs("razorpay", "order_Abc123", models.CheckoutStatePaymentInitiated, id,
				models.PaymentStatusPending, pq.Array([]string{"ORDER_CREATED"})).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.AttachGatewayOrder(ctx, id, "razorpay", "order_Abc123", from)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - State Moved On", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		mock.ExpectExec(updateSQL).WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.AttachGatewayOrder(ctx, uuid.New(), "razorpay", "order_Abc123", from)

		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestUpdateCheckoutState(t *testing.T) {
	repo, mock := setupOrderRepoTest(t)
	id := uuid.New()
	from := []models.CheckoutState{models.CheckoutStatePaymentInitiated}

	mock.ExpectExec(regexp.QuoteMeta("SET checkout_state = $1, updated_at = NOW()")).
		WithArgs(models.CheckoutStatePaymentFailed, id, models.PaymentStatusPending, pq.Array([]string{"PAYMENT_INITIATED"})).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.UpdateCheckoutState(t.Context(), id, from, models.CheckoutStatePaymentFailed)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaymentCompleted(t *testing.T) {
	ctx := t.Context()
	updateSQL := regexp.QuoteMeta("SET payment_status = $1, gateway_payment_id = $2, checkout_state = $3")

	t.Run("Success - First Completion", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		id := uuid.New()
		mock.ExpectExec(updateSQL).
			WithArgs(models.PaymentStatusCompleted, "pay_1", models.CheckoutStatePaymentVerified, id, models.PaymentStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.MarkPaymentCompleted(ctx, id, "pay_1")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Already Completed", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		mock.ExpectExec(updateSQL).WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.MarkPaymentCompleted(ctx, uuid.New(), "pay_1")

		require.NoError(t, err)
		assert.False(t, ok, "a completed order must not be completed twice")
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		dbErr := errors.New("db down")
		mock.ExpectExec(updateSQL).WillReturnError(dbErr)

		_, err := repo.MarkPaymentCompleted(ctx, uuid.New(), "pay_1")

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := t.Context()
	updateSQL := regexp.QuoteMeta("UPDATE orders SET order_status = $1, updated_at = NOW() WHERE id = $2 RETURNING")

	t.Run("Success", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		expected := testOrder()
		expected.Status = models.OrderStatusShipped
		mock.ExpectQuery(updateSQL).WithArgs(models.OrderStatusShipped, expected.ID).WillReturnRows(orderRow(t, expected))

		order, err := repo.UpdateOrderStatus(ctx, expected.ID, models.OrderStatusShipped)

		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusShipped, order.Status)
		assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		mock.ExpectQuery(updateSQL).WillReturnError(sql.ErrNoRows)

		order, err := repo.UpdateOrderStatus(ctx, uuid.New(), models.OrderStatusShipped)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, repository.ErrRecordNotFound)
	})
}

func TestListOrders(t *testing.T) {
	ctx := t.Context()
	countSQL := regexp.QuoteMeta("SELECT COUNT(*) FROM orders")
	listSQL := regexp.QuoteMeta("ORDER BY created_at DESC LIMIT $2 OFFSET $3")

	t.Run("Success - Filtered Page", func(t *testing.T) {
		// Arrange
		repo, mock := setupOrderRepoTest(t)
		first := testOrder()
		first.PaymentStatus = models.PaymentStatusCompleted

		rows := orderRow(t, first)

		mock.ExpectQuery(countSQL).WithArgs("completed").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
		mock.ExpectQuery(listSQL).WithArgs("completed", 2, 2).WillReturnRows(rows)

		// Act
		orders, total, err := repo.ListOrders(ctx, models.OrderListFilter{
			PaymentStatus: models.PaymentStatusCompleted, Page: 2, PageSize: 2,
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 7, total)
		require.Len(t, orders, 1)
		assert.Equal(t, first.ID, orders[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Count Error", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)
		dbErr := errors.New("count failed")
		mock.ExpectQuery(countSQL).WillReturnError(dbErr)

		orders, total, err := repo.ListOrders(ctx, models.OrderListFilter{Page: 1, PageSize: 10})

		assert.Nil(t, orders)
		assert.Zero(t, total)
		assert.ErrorIs(t, err, dbErr)
	})
}
