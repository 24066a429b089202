package notify

import (
	"context"

	"github.com/orderkit/orderkit/pkg/order"
)

// SMSChannel is a structural placeholder: the settings schema reserves an
// SMS toggle but no SMS provider is integrated yet.
//
// TODO: wire an SMS provider once the restaurant-facing settings UI exposes
// a phone number for notifications.
type SMSChannel struct{}

func NewSMSChannel() *SMSChannel { return &SMSChannel{} }

func (c *SMSChannel) Name() string { return "sms" }

func (c *SMSChannel) Enabled(settings order.NotificationSettings) bool {
	return settings.SMSEnabled
}

func (c *SMSChannel) Send(_ context.Context, _ order.Order, _ order.NotificationSettings) error {
	return ErrChannelNotImplemented
}
