package notify

import (
	"context"

	"github.com/orderkit/orderkit/pkg/order"
)

// Channel delivers a new-order notification through one transport. Channels
// are independent: a failure in one never affects the delivery attempt of
// another, and the orchestrator counts each outcome separately.
type Channel interface {
	// Name identifies the channel in logs and outcome reporting.
	Name() string

	// Enabled reports whether this channel is switched on for the
	// restaurant's notification settings.
	Enabled(settings order.NotificationSettings) bool

	// Send delivers the notification. A nil return means at least one
	// recipient received it.
	Send(ctx context.Context, o order.Order, settings order.NotificationSettings) error
}
