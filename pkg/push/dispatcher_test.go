package push_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderkit/orderkit/pkg/push"
)

func TestSendToMany(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("classifies per-token outcomes", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/send/multicast", r.URL.Path)
			assert.Equal(t, "key=secret", r.Header.Get("Authorization"))

			var payload struct {
				Tokens []string          `json:"tokens"`
				Data   map[string]string `json:"data"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			require.Len(t, payload.Tokens, 5)
			assert.Equal(t, "12", payload.Data["website_id"])

			json.NewEncoder(w).Encode(map[string]any{
				"success_count": 2,
				"failure_count": 3,
				"results": []map[string]string{
					{"token": payload.Tokens[0]},
					{"token": payload.Tokens[1], "error": "unregistered"},
					{"token": payload.Tokens[2], "error": "invalid-registration"},
					{"token": payload.Tokens[3], "error": "unavailable"},
					{"token": payload.Tokens[4]},
				},
			})
		}))
		t.Cleanup(srv.Close)

		dispatcher := push.New(push.Config{GatewayURL: srv.URL, ServerKey: "secret"})
		tokens := []string{"tok-a", "tok-b", "tok-c", "tok-d", "tok-e"}

		result, err := dispatcher.SendToMany(ctx, tokens, "New order", "Dana ordered",
			map[string]any{"website_id": int64(12)})
		require.NoError(t, err)

		assert.Equal(t, 2, result.SuccessCount)
		assert.Equal(t, 3, result.FailureCount)
		// Transient failures stay registered; only dead tokens are pruned.
		assert.ElementsMatch(t, []string{"tok-b", "tok-c"}, result.InvalidTokens)
	})

	t.Run("gateway outage counts every token failed", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		t.Cleanup(srv.Close)

		dispatcher := push.New(push.Config{GatewayURL: srv.URL, ServerKey: "secret"})

		result, err := dispatcher.SendToMany(ctx, []string{"tok-a", "tok-b"}, "New order", "", nil)
		assert.ErrorIs(t, err, push.ErrGatewayUnavailable)
		assert.Equal(t, 2, result.FailureCount)
		assert.Zero(t, result.SuccessCount)
	})

	t.Run("no tokens is a no-op", func(t *testing.T) {
		t.Parallel()

		dispatcher := push.New(push.Config{GatewayURL: "http://gateway.invalid", ServerKey: "secret"})

		result, err := dispatcher.SendToMany(ctx, nil, "New order", "", nil)
		require.NoError(t, err)
		assert.Zero(t, result.SuccessCount)
		assert.Zero(t, result.FailureCount)
	})

	t.Run("without a credential the dispatcher is disabled", func(t *testing.T) {
		t.Parallel()

		dispatcher := push.New(push.Config{})

		result, err := dispatcher.SendToMany(ctx, []string{"tok-a"}, "New order", "", nil)
		require.NoError(t, err)
		assert.Equal(t, 1, result.FailureCount)
	})
}

func TestSendToOne(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("delivers to a live token", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/send", r.URL.Path)
			json.NewEncoder(w).Encode(map[string]string{"token": "tok-a"})
		}))
		t.Cleanup(srv.Close)

		dispatcher := push.New(push.Config{GatewayURL: srv.URL, ServerKey: "secret"})
		assert.True(t, dispatcher.SendToOne(ctx, "tok-a", "Order update", "On its way", nil))
	})

	t.Run("reports false for a dead token", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"token": "tok-a", "error": "unregistered"})
		}))
		t.Cleanup(srv.Close)

		dispatcher := push.New(push.Config{GatewayURL: srv.URL, ServerKey: "secret"})
		assert.False(t, dispatcher.SendToOne(ctx, "tok-a", "Order update", "", nil))
	})

	t.Run("reports false when disabled", func(t *testing.T) {
		t.Parallel()

		dispatcher := push.New(push.Config{})
		assert.False(t, dispatcher.SendToOne(ctx, "tok-a", "Order update", "", nil))
	})
}

func TestServerKeyFile(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key=file-secret", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-a"})
	}))
	t.Cleanup(srv.Close)

	keyFile := filepath.Join(t.TempDir(), "server.key")
	require.NoError(t, os.WriteFile(keyFile, []byte("file-secret\n"), 0600))

	dispatcher := push.New(push.Config{GatewayURL: srv.URL, ServerKeyFile: keyFile})
	assert.True(t, dispatcher.SendToOne(context.Background(), "tok-a", "New order", "", nil))
}
