package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/orderkit/orderkit/pkg/logger"
)

// Result is the aggregate outcome of a multicast send. InvalidTokens holds
// every registration the gateway classified as dead; the caller deletes
// those from its registration store.
type Result struct {
	SuccessCount  int
	FailureCount  int
	InvalidTokens []string
}

// Dispatcher delivers notifications through the push gateway. The gateway
// client is constructed lazily once per process on first use; with no
// credential configured the dispatcher stays disabled and every send reports
// failure without erroring.
type Dispatcher struct {
	cfg        Config
	log        *slog.Logger
	httpClient *http.Client

	initOnce sync.Once
	gateway  *gatewayClient
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for send failure reporting.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// WithHTTPClient overrides the HTTP client, for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Dispatcher) {
		if client != nil {
			d.httpClient = client
		}
	}
}

// New creates a dispatcher. No credential is read and no connection is made
// until the first send.
func New(cfg Config, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		cfg: cfg,
		log: slog.Default(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SendToOne delivers a notification to a single registration and reports
// plain success. An invalid or unregistered token is a normal negative
// result, not an error condition.
func (d *Dispatcher) SendToOne(ctx context.Context, token, title, body string, data map[string]any) bool {
	gateway := d.client(ctx)
	if gateway == nil {
		return false
	}

	payload := sendRequest{
		Token:         token,
		Notification:  notification{Title: title, Body: body},
		Data:          coerceData(data),
		PlatformHints: defaultHints(),
	}

	var result tokenResult
	if err := gateway.post(ctx, "/v1/send", payload, &result); err != nil {
		d.log.LogAttrs(ctx, slog.LevelWarn, "Push send failed",
			logger.Error(err),
		)
		return false
	}
	return result.Error == ""
}

// SendToMany delivers one multicast call for all tokens and returns the
// per-class outcome. Tokens the gateway reports as invalid or unregistered
// are collected into Result.InvalidTokens for persistent cleanup. The error
// is non-nil only for whole-call failures (gateway unreachable, payload
// undecodable); in that case every token is counted as failed.
func (d *Dispatcher) SendToMany(ctx context.Context, tokens []string, title, body string, data map[string]any) (Result, error) {
	if len(tokens) == 0 {
		return Result{}, nil
	}

	gateway := d.client(ctx)
	if gateway == nil {
		return Result{FailureCount: len(tokens)}, nil
	}

	payload := multicastRequest{
		Tokens:        tokens,
		Notification:  notification{Title: title, Body: body},
		Data:          coerceData(data),
		PlatformHints: defaultHints(),
	}

	var resp multicastResponse
	if err := gateway.post(ctx, "/v1/send/multicast", payload, &resp); err != nil {
		return Result{FailureCount: len(tokens)}, err
	}

	result := Result{
		SuccessCount: resp.SuccessCount,
		FailureCount: resp.FailureCount,
	}
	for _, tr := range resp.Results {
		if tr.Error != "" && invalidTokenError(tr.Error) {
			result.InvalidTokens = append(result.InvalidTokens, tr.Token)
		}
	}
	return result, nil
}

// client performs the lazy once-per-process gateway initialization. A nil
// return means push is disabled for this process.
func (d *Dispatcher) client(ctx context.Context) *gatewayClient {
	d.initOnce.Do(func() {
		key := d.cfg.ServerKey
		if key == "" && d.cfg.ServerKeyFile != "" {
			raw, err := os.ReadFile(d.cfg.ServerKeyFile)
			if err != nil {
				d.log.LogAttrs(ctx, slog.LevelWarn, "Push credential file unreadable, push disabled",
					slog.String("path", d.cfg.ServerKeyFile),
					logger.Error(err),
				)
				return
			}
			key = strings.TrimSpace(string(raw))
		}
		if key == "" || d.cfg.GatewayURL == "" {
			d.log.LogAttrs(ctx, slog.LevelInfo, "No push credential configured, push disabled")
			return
		}

		d.gateway = &gatewayClient{
			baseURL:   strings.TrimSuffix(d.cfg.GatewayURL, "/"),
			serverKey: key,
			client:    d.httpClient,
		}
	})
	return d.gateway
}

// gatewayClient is the thin REST client for the push gateway.
type gatewayClient struct {
	baseURL   string
	serverKey string
	client    *http.Client
}

func (g *gatewayClient) post(ctx context.Context, path string, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+g.serverKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return errors.Join(ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Join(ErrGatewayUnavailable,
			fmt.Errorf("push gateway returned %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode push response: %w", err)
	}
	return nil
}
