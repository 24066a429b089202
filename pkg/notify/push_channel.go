package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/orderkit/orderkit/pkg/logger"
	"github.com/orderkit/orderkit/pkg/order"
	"github.com/orderkit/orderkit/pkg/push"
)

// PushChannel multicasts the new-order notification to every registered
// admin device and prunes registrations the gateway reports as dead.
type PushChannel struct {
	dispatcher *push.Dispatcher
	devices    DeviceStore
	log        *slog.Logger
}

func NewPushChannel(dispatcher *push.Dispatcher, devices DeviceStore, log *slog.Logger) *PushChannel {
	if log == nil {
		log = slog.Default()
	}
	return &PushChannel{dispatcher: dispatcher, devices: devices, log: log}
}

func (c *PushChannel) Name() string { return "push" }

func (c *PushChannel) Enabled(settings order.NotificationSettings) bool {
	return settings.PushEnabled
}

func (c *PushChannel) Send(ctx context.Context, o order.Order, _ order.NotificationSettings) error {
	tokens, err := c.devices.Tokens(ctx, o.WebsiteID)
	if err != nil {
		return fmt.Errorf("load device tokens: %w", err)
	}
	if len(tokens) == 0 {
		return ErrNoRecipients
	}

	title := fmt.Sprintf("New order #%s", o.OrderNumber)
	body := fmt.Sprintf("%s placed an order for %.2f", o.CustomerName, o.Total)
	data := map[string]any{
		"type":         "new_order",
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"website_id":   o.WebsiteID,
	}

	result, err := c.dispatcher.SendToMany(ctx, tokens, title, body, data)
	if err != nil {
		return fmt.Errorf("multicast push: %w", err)
	}

	// Dead registrations are cleaned up regardless of aggregate outcome so
	// they never consume another delivery attempt.
	if len(result.InvalidTokens) > 0 {
		if err := c.devices.DeleteTokens(ctx, result.InvalidTokens); err != nil {
			c.log.LogAttrs(ctx, slog.LevelWarn, "Failed to prune invalid push tokens",
				slog.Int("count", len(result.InvalidTokens)),
				logger.Error(err),
			)
		}
	}

	if result.SuccessCount == 0 {
		return ErrAllRecipientsFailed
	}
	return nil
}
