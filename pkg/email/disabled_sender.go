package email

import "context"

// DisabledSender implements EmailSender but refuses to send anything.
// It is used when no email provider is configured so callers can treat
// email as an optional channel without nil checks.
type DisabledSender struct{}

// NewDisabledSender creates a sender that always returns ErrSendingDisabled.
func NewDisabledSender() EmailSender {
	return &DisabledSender{}
}

// SendEmail always returns ErrSendingDisabled.
func (d *DisabledSender) SendEmail(_ context.Context, _ SendEmailParams) error {
	return ErrSendingDisabled
}
