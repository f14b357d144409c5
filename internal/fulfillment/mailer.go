package fulfillment

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	"github.com/aaravmahajanofficial/artisan-storefront/pkg/sendgrid"
)

type Mailer interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
}

type confirmationMailer struct {
	email sendgrid.EmailService
}

func NewConfirmationMailer(email sendgrid.EmailService) Mailer {
	return &confirmationMailer{email: email}
}

func (m *confirmationMailer) SendOrderConfirmation(ctx context.Context, order *models.Order) error {
	return m.email.Send(ctx, ConfirmationEmail(order))
}

// ConfirmationEmail renders the order receipt sent after payment verification.
func ConfirmationEmail(order *models.Order) *models.EmailNotificationRequest {
	var text, rows strings.Builder

	fmt.Fprintf(&text, "Hi %s,\n\nThank you for your order %s.\n\n", order.Customer.Name, order.OrderNumber)

	for _, item := range order.Items {
		label := item.Name
		if variant := variantLabel(item); variant != "" {
			label += " (" + variant + ")"
		}

		fmt.Fprintf(&text, "%d x %s  %.2f\n", item.Quantity, label, item.Price*float64(item.Quantity))
		fmt.Fprintf(&rows, "<tr><td>%d</td><td>%s</td><td>%.2f</td></tr>", item.Quantity, html.EscapeString(label), item.Price*float64(item.Quantity))
	}

	fmt.Fprintf(&text, "\nSubtotal: %.2f\n", order.Subtotal)

	if order.Discount > 0 {
		fmt.Fprintf(&text, "Discount (%s): -%.2f\n", order.CouponCode, order.Discount)
	}

	fmt.Fprintf(&text, "Total paid: %.2f\n\nShipping to:\n%s\n", order.Total, formatAddress(order.ShippingAddress))

	htmlBody := fmt.Sprintf(
		"<p>Hi %s,</p><p>Thank you for your order <strong>%s</strong>.</p><table>%s</table><p>Total paid: <strong>%.2f</strong></p>",
		html.EscapeString(order.Customer.Name), html.EscapeString(order.OrderNumber), rows.String(), order.Total,
	)

	return &models.EmailNotificationRequest{
		To:          order.Customer.Email,
		Subject:     fmt.Sprintf("Order %s confirmed", order.OrderNumber),
		Content:     text.String(),
		HTMLContent: htmlBody,
	}
}

func variantLabel(item models.OrderItem) string {
	parts := make([]string, 0, 2)

	if item.Size != "" {
		parts = append(parts, item.Size)
	}

	if item.Color != "" {
		parts = append(parts, item.Color)
	}

	return strings.Join(parts, ", ")
}

func formatAddress(a models.Address) string {
	lines := []string{a.AddressLine1}
	if a.AddressLine2 != "" {
		lines = append(lines, a.AddressLine2)
	}

	lines = append(lines, fmt.Sprintf("%s, %s %s", a.City, a.State, a.Pincode))

	return strings.Join(lines, "\n")
}
