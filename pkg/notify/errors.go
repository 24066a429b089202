package notify

import "errors"

var (
	ErrSettingsUnavailable   = errors.New("notify: settings unavailable")
	ErrNoRecipients          = errors.New("notify: no recipients configured")
	ErrAllRecipientsFailed   = errors.New("notify: delivery failed for all recipients")
	ErrChannelNotImplemented = errors.New("notify: channel not implemented")
)
