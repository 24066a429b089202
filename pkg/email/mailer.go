package email

import (
	"context"
	"fmt"
	"regexp"
)

// EmailSender represents an interface for sending emails.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SendEmailParams represents the parameters for sending an email.
type SendEmailParams struct {
	SendTo   string `json:"send_to"`       // Email address of the recipient
	Subject  string `json:"subject"`       // Subject of the email
	BodyHTML string `json:"body_html"`     // HTML body of the email
	BodyText string `json:"body_text"`     // Plain-text alternative body
	Tag      string `json:"tag,omitempty"` // Optional
}

// emailRegex is intentionally permissive; real validation happens at the
// transport, this only rejects obviously malformed addresses early.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks the parameters required for any transport.
func (p SendEmailParams) Validate() error {
	if p.SendTo == "" {
		return fmt.Errorf("%w: SendTo is required", ErrInvalidParams)
	}
	if !emailRegex.MatchString(p.SendTo) {
		return fmt.Errorf("%w: SendTo must be a valid email address", ErrInvalidParams)
	}
	if p.Subject == "" {
		return fmt.Errorf("%w: Subject is required", ErrInvalidParams)
	}
	if p.BodyHTML == "" && p.BodyText == "" {
		return fmt.Errorf("%w: a body is required", ErrInvalidParams)
	}
	return nil
}
