package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/orderkit/orderkit/pkg/jwt"
)

// jwtBearerGrant is the RFC 7523 grant type for signed-assertion exchanges.
const jwtBearerGrant = "urn:ietf:params:oauth:grant-type:jwt-bearer"

// TokenConfig describes the trusted backend identity used for all realtime
// store writes. End-user credentials never touch the store; every projection
// is written as this single identity.
type TokenConfig struct {
	AuthURL       string        `env:"REALTIME_AUTH_URL"`
	Issuer        string        `env:"REALTIME_CLIENT_ID"`
	Audience      string        `env:"REALTIME_AUDIENCE"`
	SigningKey    string        `env:"REALTIME_SIGNING_KEY"`
	AssertionTTL  time.Duration `env:"REALTIME_ASSERTION_TTL" envDefault:"1m"`
	RefreshBuffer time.Duration `env:"REALTIME_TOKEN_REFRESH_BUFFER" envDefault:"5m"`
}

// TokenManager exchanges a short-lived signed assertion for a session token
// and caches it. The token is refreshed proactively once its remaining
// lifetime drops below RefreshBuffer - never after expiry - and is discarded
// unconditionally by Invalidate whenever an authenticated write fails, so the
// next call re-authenticates instead of retrying with a token that may be the
// root cause.
type TokenManager struct {
	cfg    TokenConfig
	signer *jwt.Service
	client *http.Client
	now    func() time.Time

	mu    sync.Mutex
	token *oauth2.Token
}

// TokenOption configures a TokenManager.
type TokenOption func(*TokenManager)

// WithHTTPClient overrides the HTTP client used for the exchange.
func WithHTTPClient(client *http.Client) TokenOption {
	return func(m *TokenManager) {
		if client != nil {
			m.client = client
		}
	}
}

// WithTokenClock overrides the time source, for expiry tests.
func WithTokenClock(now func() time.Time) TokenOption {
	return func(m *TokenManager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewTokenManager creates a token manager for the trusted identity.
func NewTokenManager(cfg TokenConfig, opts ...TokenOption) (*TokenManager, error) {
	signer, err := jwt.NewFromString(cfg.SigningKey)
	if err != nil {
		return nil, fmt.Errorf("realtime: invalid signing key: %w", err)
	}
	if cfg.RefreshBuffer <= 0 {
		cfg.RefreshBuffer = 5 * time.Minute
	}
	if cfg.AssertionTTL <= 0 {
		cfg.AssertionTTL = time.Minute
	}

	m := &TokenManager{
		cfg:    cfg,
		signer: signer,
		client: &http.Client{Timeout: 30 * time.Second},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Token returns a session token, reusing the cached one while its remaining
// lifetime exceeds the refresh buffer.
func (m *TokenManager) Token(ctx context.Context) (*oauth2.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != nil && m.token.Expiry.After(m.now().Add(m.cfg.RefreshBuffer)) {
		return m.token, nil
	}

	token, err := m.exchange(ctx)
	if err != nil {
		return nil, err
	}
	m.token = token
	return token, nil
}

// Invalidate discards the cached token. Called by the store client on any
// authenticated-write failure.
func (m *TokenManager) Invalidate() {
	m.mu.Lock()
	m.token = nil
	m.mu.Unlock()
}

func (m *TokenManager) exchange(ctx context.Context) (*oauth2.Token, error) {
	now := m.now()
	assertion, err := m.signer.Generate(jwt.StandardClaims{
		Issuer:    m.cfg.Issuer,
		Subject:   m.cfg.Issuer,
		Audience:  m.cfg.Audience,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(m.cfg.AssertionTTL).Unix(),
	})
	if err != nil {
		return nil, errors.Join(ErrAuthExchange, err)
	}

	form := url.Values{
		"grant_type": {jwtBearerGrant},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Join(ErrAuthExchange, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, errors.Join(ErrAuthExchange, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Join(ErrAuthExchange,
			fmt.Errorf("auth endpoint returned %d: %s", resp.StatusCode, string(body)))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Join(ErrAuthExchange, err)
	}
	if payload.AccessToken == "" {
		return nil, errors.Join(ErrAuthExchange, errors.New("empty access_token in response"))
	}

	tokenType := payload.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	return &oauth2.Token{
		AccessToken: payload.AccessToken,
		TokenType:   tokenType,
		Expiry:      now.Add(time.Duration(payload.ExpiresIn) * time.Second),
	}, nil
}
