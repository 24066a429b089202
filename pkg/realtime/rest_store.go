package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"
)

// RESTConfig describes the Firebase-style JSON tree endpoint.
type RESTConfig struct {
	BaseURL     string `env:"REALTIME_STORE_URL"`
	CASAttempts int    `env:"REALTIME_CAS_ATTEMPTS" envDefault:"5"`
}

// RESTStore implements ConditionalStore against a JSON-over-HTTP realtime
// store. Plain writes are PUT/PATCH/DELETE on the node path; CompareAndSwap
// uses ETag-guarded writes: read the node with its ETag, verify the
// precondition locally, then PUT with If-Match so the store rejects the
// write if any other client committed in between.
//
// Every request authenticates with the trusted-identity session token. Any
// rejected authenticated write discards the cached token before returning.
type RESTStore struct {
	cfg    RESTConfig
	tokens *TokenManager
	client *http.Client
}

// RESTOption configures a RESTStore.
type RESTOption func(*RESTStore)

// WithRESTClient overrides the HTTP client, for tests.
func WithRESTClient(client *http.Client) RESTOption {
	return func(s *RESTStore) {
		if client != nil {
			s.client = client
		}
	}
}

// NewRESTStore creates a store client over the given endpoint.
func NewRESTStore(cfg RESTConfig, tokens *TokenManager, opts ...RESTOption) *RESTStore {
	if cfg.CASAttempts <= 0 {
		cfg.CASAttempts = 5
	}
	s := &RESTStore{
		cfg:    cfg,
		tokens: tokens,
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RESTStore) Put(ctx context.Context, path string, value any) error {
	return s.write(ctx, http.MethodPut, path, value)
}

func (s *RESTStore) Patch(ctx context.Context, path string, fields map[string]any) error {
	return s.write(ctx, http.MethodPatch, path, fields)
}

func (s *RESTStore) Delete(ctx context.Context, path string) error {
	return s.write(ctx, http.MethodDelete, path, nil)
}

// CompareAndSwap implements the optimistic read-check-write loop. A false
// return with nil error means the precondition failed: another writer already
// moved the field outside the expected set.
func (s *RESTStore) CompareAndSwap(ctx context.Context, path, field string, expect []string, next string) (bool, error) {
	for range s.cfg.CASAttempts {
		node, etag, err := s.readWithETag(ctx, path)
		if err != nil {
			return false, err
		}

		if current, ok := node[field]; ok {
			value, _ := current.(string)
			if !slices.Contains(expect, value) {
				return false, nil
			}
		}
		node[field] = next

		committed, err := s.putIfMatch(ctx, path, node, etag)
		if err != nil {
			return false, err
		}
		if committed {
			return true, nil
		}
		// ETag moved underneath us: re-read and re-check the precondition.
	}
	return false, ErrCASContention
}

func (s *RESTStore) write(ctx context.Context, method, path string, value any) error {
	var body io.Reader
	if value != nil {
		payload, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("realtime: marshal %s payload: %w", path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := s.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.tokens.Invalidate()
		return errors.Join(ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		s.tokens.Invalidate()
		return errors.Join(ErrWriteRejected,
			fmt.Errorf("%s %s returned %d", method, path, resp.StatusCode))
	}
	return nil
}

func (s *RESTStore) readWithETag(ctx context.Context, path string) (map[string]any, string, error) {
	req, err := s.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("X-Realtime-ETag", "true")

	resp, err := s.client.Do(req)
	if err != nil {
		s.tokens.Invalidate()
		return nil, "", errors.Join(ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.tokens.Invalidate()
		return nil, "", errors.Join(ErrStoreUnavailable,
			fmt.Errorf("GET %s returned %d", path, resp.StatusCode))
	}

	// A null body means the node does not exist yet; CAS treats every field
	// as absent and may still commit against the node's current ETag.
	node := make(map[string]any)
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errors.Join(ErrStoreUnavailable, err)
	}
	trimmed := strings.TrimSpace(string(payload))
	if trimmed != "" && trimmed != "null" {
		if err := json.Unmarshal(payload, &node); err != nil {
			return nil, "", fmt.Errorf("realtime: decode %s: %w", path, err)
		}
	}

	return node, resp.Header.Get("ETag"), nil
}

func (s *RESTStore) putIfMatch(ctx context.Context, path string, node map[string]any, etag string) (bool, error) {
	payload, err := json.Marshal(node)
	if err != nil {
		return false, fmt.Errorf("realtime: marshal %s payload: %w", path, err)
	}

	req, err := s.newRequest(ctx, http.MethodPut, path, bytes.NewReader(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("If-Match", etag)

	resp, err := s.client.Do(req)
	if err != nil {
		s.tokens.Invalidate()
		return false, errors.Join(ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusPreconditionFailed:
		return false, nil
	case resp.StatusCode >= 400:
		s.tokens.Invalidate()
		return false, errors.Join(ErrWriteRejected,
			fmt.Errorf("PUT %s returned %d", path, resp.StatusCode))
	}
	return true, nil
}

func (s *RESTStore) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	url := strings.TrimSuffix(s.cfg.BaseURL, "/") + "/" + path + ".json"
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("realtime: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", token.TokenType+" "+token.AccessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}
