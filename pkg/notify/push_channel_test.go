package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderkit/orderkit/pkg/notify"
	"github.com/orderkit/orderkit/pkg/order"
	"github.com/orderkit/orderkit/pkg/push"
)

type fakeDevices struct {
	mu      sync.Mutex
	tokens  []string
	deleted []string
	err     error
}

func (d *fakeDevices) Tokens(context.Context, int64) ([]string, error) {
	return d.tokens, d.err
}

func (d *fakeDevices) DeleteTokens(_ context.Context, tokens []string) error {
	d.mu.Lock()
	d.deleted = append(d.deleted, tokens...)
	d.mu.Unlock()
	return nil
}

func gatewayStub(t *testing.T, results []map[string]string, successCount, failureCount int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success_count": successCount,
			"failure_count": failureCount,
			"results":       results,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPushChannel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	testOrder := order.Order{ID: 5, WebsiteID: 12, OrderNumber: "A-100", CustomerName: "Dana", Total: 21.5}

	t.Run("delivers and prunes dead registrations", func(t *testing.T) {
		t.Parallel()

		srv := gatewayStub(t, []map[string]string{
			{"token": "tok-live"},
			{"token": "tok-dead", "error": "unregistered"},
		}, 1, 1)

		devices := &fakeDevices{tokens: []string{"tok-live", "tok-dead"}}
		dispatcher := push.New(push.Config{GatewayURL: srv.URL, ServerKey: "secret"})
		channel := notify.NewPushChannel(dispatcher, devices, nil)

		err := channel.Send(ctx, testOrder, order.NotificationSettings{})
		require.NoError(t, err)
		assert.Equal(t, []string{"tok-dead"}, devices.deleted)
	})

	t.Run("no registered devices is a failed channel", func(t *testing.T) {
		t.Parallel()

		devices := &fakeDevices{}
		dispatcher := push.New(push.Config{})
		channel := notify.NewPushChannel(dispatcher, devices, nil)

		err := channel.Send(ctx, testOrder, order.NotificationSettings{})
		assert.ErrorIs(t, err, notify.ErrNoRecipients)
	})

	t.Run("all recipients failing fails the channel", func(t *testing.T) {
		t.Parallel()

		srv := gatewayStub(t, []map[string]string{
			{"token": "tok-a", "error": "unavailable"},
		}, 0, 1)

		devices := &fakeDevices{tokens: []string{"tok-a"}}
		dispatcher := push.New(push.Config{GatewayURL: srv.URL, ServerKey: "secret"})
		channel := notify.NewPushChannel(dispatcher, devices, nil)

		err := channel.Send(ctx, testOrder, order.NotificationSettings{})
		assert.ErrorIs(t, err, notify.ErrAllRecipientsFailed)
		assert.Empty(t, devices.deleted)
	})

	t.Run("device store failure fails the channel", func(t *testing.T) {
		t.Parallel()

		devices := &fakeDevices{err: errors.New("db down")}
		dispatcher := push.New(push.Config{})
		channel := notify.NewPushChannel(dispatcher, devices, nil)

		assert.Error(t, channel.Send(ctx, testOrder, order.NotificationSettings{}))
	})
}
