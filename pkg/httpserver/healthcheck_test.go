package httpserver_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderkit/orderkit/pkg/httpserver"
)

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	probe := func(t *testing.T, handler http.HandlerFunc) (int, string) {
		t.Helper()
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
		body, err := io.ReadAll(rec.Result().Body)
		require.NoError(t, err)
		return rec.Code, string(body)
	}

	t.Run("no dependencies reports alive", func(t *testing.T) {
		t.Parallel()

		code, body := probe(t, httpserver.HealthCheckHandler(ctx, log))
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ALIVE", body)
	})

	t.Run("all dependencies healthy reports ready", func(t *testing.T) {
		t.Parallel()

		healthy := func(context.Context) error { return nil }
		code, body := probe(t, httpserver.HealthCheckHandler(ctx, log, healthy, healthy, healthy))
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "READY", body)
	})

	t.Run("any failing dependency reports not ready", func(t *testing.T) {
		t.Parallel()

		healthy := func(context.Context) error { return nil }
		down := func(context.Context) error { return errors.New("connection refused") }
		code, body := probe(t, httpserver.HealthCheckHandler(ctx, log, healthy, healthy, down))
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "NOT_READY", body)
	})
}
