package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

type PaymentStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

type Customer struct {
	Name  string `json:"customer_name" validate:"required,max=120"`
	Email string `json:"customer_email" validate:"required,email"`
	Phone string `json:"customer_phone" validate:"required,len=10,number"`
}

type Address struct {
	AddressLine1 string `json:"address_line1" validate:"required,max=200"`
	AddressLine2 string `json:"address_line2,omitempty" validate:"max=200"`
	City         string `json:"city" validate:"required,max=100"`
	State        string `json:"state" validate:"required,max=100"`
	Pincode      string `json:"pincode" validate:"required,len=6,number"`
}

// OrderItem is the price snapshot taken at submission time. It is never
// rewritten, whatever happens to the catalog later.
type OrderItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
}

type Order struct {
	ID               uuid.UUID     `json:"id"`
	OrderNumber      string        `json:"order_number"`
	SessionID        string        `json:"-"`
	Customer         Customer      `json:"customer"`
	ShippingAddress  Address       `json:"shipping_address"`
	Items            []OrderItem   `json:"items"`
	Subtotal         float64       `json:"subtotal"`
	Discount         float64       `json:"discount"`
	Total            float64       `json:"total"`
	CouponCode       string        `json:"coupon_code,omitempty"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	Status           OrderStatus   `json:"order_status"`
	CheckoutState    CheckoutState `json:"checkout_state"`
	Gateway          string        `json:"gateway,omitempty"`
	GatewayOrderID   string        `json:"gateway_order_id,omitempty"`
	// GatewayOrderIDs holds every gateway order issued for this order, the
	// current one included. A retry leaves earlier sessions payable.
	GatewayOrderIDs  []string      `json:"-"`
	GatewayPaymentID string        `json:"gateway_payment_id,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// IssuedGatewayOrder reports whether gatewayOrderID was opened for this order,
// current or earlier.
func (o *Order) IssuedGatewayOrder(gatewayOrderID string) bool {
	if gatewayOrderID == "" {
		return false
	}

	return gatewayOrderID == o.GatewayOrderID || slices.Contains(o.GatewayOrderIDs, gatewayOrderID)
}

type CheckoutRequest struct {
	Customer
	ShippingAddress Address `json:"shipping_address" validate:"required"`
	CouponCode      string  `json:"coupon_code,omitempty" validate:"max=64"`
}

// CheckoutResult is the single outcome of the checkout entry point. On
// failure OrderID is set when an order was created before the failing step.
type CheckoutResult struct {
	Success        bool            `json:"success"`
	OrderID        uuid.UUID       `json:"order_id,omitempty"`
	OrderNumber    string          `json:"order_number,omitempty"`
	Total          float64         `json:"total,omitempty"`
	PaymentSession *PaymentSession `json:"payment_session,omitempty"`
	Reason         string          `json:"reason,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending confirmed processing shipped delivered cancelled"`
}

type OrderListFilter struct {
	PaymentStatus PaymentStatus
	Page          int
	PageSize      int
}
