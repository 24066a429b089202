package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/orderkit/orderkit/pkg/email"
	"github.com/orderkit/orderkit/pkg/order"
)

// EmailChannel notifies the restaurant's configured address about a new order.
type EmailChannel struct {
	sender email.EmailSender
}

func NewEmailChannel(sender email.EmailSender) *EmailChannel {
	return &EmailChannel{sender: sender}
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Enabled(settings order.NotificationSettings) bool {
	return settings.EmailEnabled && settings.Email != ""
}

func (c *EmailChannel) Send(ctx context.Context, o order.Order, settings order.NotificationSettings) error {
	if settings.Email == "" {
		return ErrNoRecipients
	}

	params := email.SendEmailParams{
		SendTo:   settings.Email,
		Subject:  fmt.Sprintf("New order #%s", o.OrderNumber),
		BodyHTML: renderOrderHTML(o),
		BodyText: renderOrderText(o),
		Tag:      "new-order",
	}
	if err := c.sender.SendEmail(ctx, params); err != nil {
		return fmt.Errorf("send order email: %w", err)
	}
	return nil
}

func renderOrderHTML(o order.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>New order #%s</h2>", o.OrderNumber)
	fmt.Fprintf(&b, "<p><strong>Customer:</strong> %s<br>", o.CustomerName)
	fmt.Fprintf(&b, "<strong>Phone:</strong> %s", o.CustomerPhone)
	if o.Address != "" {
		fmt.Fprintf(&b, "<br><strong>Address:</strong> %s", o.Address)
	}
	b.WriteString("</p><table><tr><th>Item</th><th>Qty</th><th>Price</th></tr>")
	for _, item := range o.Items {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>%.2f</td></tr>",
			item.Name, item.Quantity, item.Price)
	}
	b.WriteString("</table>")
	fmt.Fprintf(&b, "<p>Subtotal: %.2f<br>", o.Subtotal)
	if o.DeliveryFee > 0 {
		fmt.Fprintf(&b, "Delivery: %.2f<br>", o.DeliveryFee)
	}
	fmt.Fprintf(&b, "<strong>Total: %.2f</strong></p>", o.Total)
	fmt.Fprintf(&b, "<p>Payment: %s</p>", o.PaymentMethod)
	return b.String()
}

func renderOrderText(o order.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New order #%s\n\n", o.OrderNumber)
	fmt.Fprintf(&b, "Customer: %s\nPhone: %s\n", o.CustomerName, o.CustomerPhone)
	if o.Address != "" {
		fmt.Fprintf(&b, "Address: %s\n", o.Address)
	}
	b.WriteString("\n")
	for _, item := range o.Items {
		fmt.Fprintf(&b, "%dx %s  %.2f\n", item.Quantity, item.Name, item.Price)
	}
	fmt.Fprintf(&b, "\nSubtotal: %.2f\n", o.Subtotal)
	if o.DeliveryFee > 0 {
		fmt.Fprintf(&b, "Delivery: %.2f\n", o.DeliveryFee)
	}
	fmt.Fprintf(&b, "Total: %.2f\nPayment: %s\n", o.Total, o.PaymentMethod)
	return b.String()
}
