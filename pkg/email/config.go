package email

// Config holds email transport configuration.
// PostmarkServerToken and PostmarkAccountToken are optional to support
// deployments where email sending is disabled; NewSenderFromConfig falls
// back to the dev sender (when DevDir is set) or a disabled sender when
// they are absent.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL"`
	SupportEmail         string `env:"SUPPORT_EMAIL"`
	DevDir               string `env:"EMAIL_DEV_DIR"`
}

// Configured reports whether the transport credentials are present.
func (c Config) Configured() bool {
	return c.PostmarkServerToken != "" && c.PostmarkAccountToken != "" && c.SenderEmail != ""
}

// NewSenderFromConfig returns the Postmark sender when credentials are
// configured, the dev sender when DevDir points at a local output
// directory, and the disabled sender otherwise, so callers never branch on
// credential presence themselves.
func NewSenderFromConfig(cfg Config) (EmailSender, error) {
	if cfg.Configured() {
		return NewPostmarkClient(cfg)
	}
	if cfg.DevDir != "" {
		return NewDevSender(cfg.DevDir), nil
	}
	return NewDisabledSender(), nil
}
