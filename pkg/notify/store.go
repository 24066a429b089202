package notify

import (
	"context"

	"github.com/orderkit/orderkit/pkg/order"
)

// SettingsStore loads per-restaurant notification settings.
type SettingsStore interface {
	NotificationSettings(ctx context.Context, websiteID int64) (order.NotificationSettings, error)
}

// DeviceStore manages push registrations for a restaurant's admin devices.
// Tokens reported dead by the push gateway are removed through DeleteTokens
// so they are never retried on the next order.
type DeviceStore interface {
	Tokens(ctx context.Context, websiteID int64) ([]string, error)
	DeleteTokens(ctx context.Context, tokens []string) error
}
