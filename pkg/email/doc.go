// Package email provides a provider-agnostic interface for sending transactional
// emails with built-in support for Postmark.
//
// The package is built around the EmailSender interface, allowing different email
// providers to be swapped without changing application code. Currently supported:
//   - PostmarkClient for production email delivery with tracking
//   - DevSender for local development (saves emails to disk)
//   - DisabledSender when no provider is configured
//
// All implementations validate email parameters before sending and provide
// consistent error handling across providers.
//
// # Usage
//
// Basic email sending with Postmark:
//
//	cfg := email.Config{
//	    PostmarkServerToken:  "your-server-token",
//	    PostmarkAccountToken: "your-account-token",
//	    SenderEmail:          "noreply@example.com",
//	}
//
//	sender, err := email.NewSenderFromConfig(cfg)
//	if err != nil {
//	    // Handle configuration error
//	}
//
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//	    SendTo:   "customer@example.com",
//	    Subject:  "Order confirmation",
//	    BodyHTML: "<h1>Thanks for your order</h1>",
//	    BodyText: "Thanks for your order",
//	    Tag:      "order-confirmation",
//	})
//
// Email is an optional channel: when Config.Configured() is false,
// NewSenderFromConfig returns a DisabledSender whose SendEmail always
// fails with ErrSendingDisabled. Callers that treat email as best-effort
// can check for that sentinel and continue.
package email
