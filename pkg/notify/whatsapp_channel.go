package notify

import (
	"context"

	"github.com/orderkit/orderkit/pkg/order"
)

// WhatsAppChannel is a structural placeholder, same as SMSChannel.
type WhatsAppChannel struct{}

func NewWhatsAppChannel() *WhatsAppChannel { return &WhatsAppChannel{} }

func (c *WhatsAppChannel) Name() string { return "whatsapp" }

func (c *WhatsAppChannel) Enabled(settings order.NotificationSettings) bool {
	return settings.WhatsAppEnabled
}

func (c *WhatsAppChannel) Send(_ context.Context, _ order.Order, _ order.NotificationSettings) error {
	return ErrChannelNotImplemented
}
