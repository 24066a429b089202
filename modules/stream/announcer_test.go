package stream_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderkit/orderkit/modules/stream"
	"github.com/orderkit/orderkit/pkg/menucache"
	"github.com/orderkit/orderkit/pkg/notify"
	"github.com/orderkit/orderkit/pkg/order"
	"github.com/orderkit/orderkit/pkg/realtime"
	"github.com/orderkit/orderkit/pkg/sse"
)

// recordingStore captures realtime mirror traffic.
type recordingStore struct {
	mu       sync.Mutex
	puts     []string
	payloads []any
	patches  []string
	deletes  []string
}

func (s *recordingStore) Put(_ context.Context, path string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts = append(s.puts, path)
	s.payloads = append(s.payloads, value)
	return nil
}

func (s *recordingStore) Patch(_ context.Context, path string, _ map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patches = append(s.patches, path)
	return nil
}

func (s *recordingStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, path)
	return nil
}

func (s *recordingStore) CompareAndSwap(context.Context, string, string, []string, string) (bool, error) {
	return true, nil
}

// alwaysDelivered is a notification channel that succeeds for any order.
type alwaysDelivered struct{}

func (alwaysDelivered) Name() string                                 { return "test" }
func (alwaysDelivered) Enabled(order.NotificationSettings) bool      { return true }
func (alwaysDelivered) Send(context.Context, order.Order, order.NotificationSettings) error {
	return nil
}

type enabledSettings struct{}

func (enabledSettings) NotificationSettings(context.Context, int64) (order.NotificationSettings, error) {
	return order.NotificationSettings{Enabled: true}, nil
}

// stubSource satisfies the cache source with fixed data.
type stubSource struct{}

func (stubSource) Restaurant(context.Context, int64) (*menucache.Restaurant, error) {
	return &menucache.Restaurant{ID: 12, Name: "Blue Olive", Phone: "+15550100", Address: "1 Harbour St"}, nil
}
func (stubSource) Products(context.Context, int64) ([]menucache.Product, error) { return nil, nil }
func (stubSource) Offers(context.Context, int64, time.Time) ([]menucache.Offer, error) {
	return nil, nil
}
func (stubSource) BusinessHours(context.Context, int64) ([]menucache.BusinessHour, error) {
	return nil, nil
}
func (stubSource) AllRestaurants(context.Context, bool) ([]menucache.Restaurant, error) {
	return nil, nil
}
func (stubSource) AllRestaurantsIncludingUnpublished(context.Context) ([]menucache.Restaurant, error) {
	return nil, nil
}

func receiveEvent(t *testing.T, conn *sse.Connection) sse.Event {
	t.Helper()
	select {
	case frame, ok := <-conn.Events:
		require.True(t, ok, "connection closed unexpectedly")
		raw := strings.TrimSpace(strings.TrimPrefix(string(frame), "data: "))
		var event sse.Event
		require.NoError(t, json.Unmarshal([]byte(raw), &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return sse.Event{}
	}
}

func newAnnouncer(t *testing.T) (*stream.Announcer, *recordingStore, *sse.Broadcaster) {
	t.Helper()

	store := &recordingStore{}
	mirror := realtime.NewSync(store)
	orchestrator := notify.NewOrchestrator(enabledSettings{}, []notify.Channel{alwaysDelivered{}})
	broadcaster := sse.NewBroadcaster()

	cacheStore := menucache.NewMemoryStore()
	t.Cleanup(cacheStore.Stop)
	cache := menucache.New(cacheStore, stubSource{}, menucache.Config{})

	return stream.NewAnnouncer(orchestrator, mirror, broadcaster, cache), store, broadcaster
}

func TestAnnounceOrderCreated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	announcer, store, broadcaster := newAnnouncer(t)

	admin, err := broadcaster.Subscribe(ctx, sse.AdminScope(12))
	require.NoError(t, err)
	t.Cleanup(func() { broadcaster.Unsubscribe(admin) })
	receiveEvent(t, admin)

	announcer.AnnounceOrderCreated(ctx, order.Order{ID: 5, WebsiteID: 12, OrderNumber: "A-100"})

	assert.Equal(t, []string{"orders/12/A-100"}, store.puts)

	event := receiveEvent(t, admin)
	assert.Equal(t, sse.TypeNewOrder, event.Type)
	require.NotNil(t, event.Order)
	assert.Equal(t, "A-100", event.Order.OrderNumber)
}

func TestAnnounceStatusChange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("active status patches the mirror and feeds both streams", func(t *testing.T) {
		t.Parallel()

		announcer, store, broadcaster := newAnnouncer(t)
		admin, err := broadcaster.Subscribe(ctx, sse.AdminScope(12))
		require.NoError(t, err)
		customer, err := broadcaster.Subscribe(ctx, sse.OrderScope(5))
		require.NoError(t, err)
		t.Cleanup(func() {
			broadcaster.Unsubscribe(admin)
			broadcaster.Unsubscribe(customer)
		})
		receiveEvent(t, admin)
		receiveEvent(t, customer)

		announcer.AnnounceStatusChange(ctx, order.Order{
			ID: 5, WebsiteID: 12, OrderNumber: "A-100", Status: order.StatusPreparing,
		})

		assert.Equal(t, []string{"orders/12/A-100"}, store.patches)
		assert.Empty(t, store.deletes)

		adminEvent := receiveEvent(t, admin)
		assert.Equal(t, int64(5), adminEvent.OrderID)
		assert.Equal(t, order.StatusPreparing, adminEvent.Status)

		customerEvent := receiveEvent(t, customer)
		require.NotNil(t, customerEvent.Order)
		assert.Equal(t, order.StatusPreparing, customerEvent.Order.Status)
	})

	t.Run("terminal status removes the mirror projection", func(t *testing.T) {
		t.Parallel()

		announcer, store, _ := newAnnouncer(t)

		announcer.AnnounceStatusChange(ctx, order.Order{
			ID: 5, WebsiteID: 12, OrderNumber: "A-100", Status: order.StatusCompleted,
		})

		assert.Empty(t, store.patches)
		assert.Equal(t, []string{"orders/12/A-100"}, store.deletes)
	})
}

func TestPickupFromCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	cacheStore := menucache.NewMemoryStore()
	t.Cleanup(cacheStore.Stop)
	cache := menucache.New(cacheStore, stubSource{}, menucache.Config{})

	store := &recordingStore{}
	mirror := realtime.NewSync(store,
		realtime.WithPickupResolver(stream.PickupFromCache(cache)),
	)

	mirror.SyncOrder(ctx, order.Order{ID: 5, WebsiteID: 12, OrderNumber: "A-100"})

	require.Equal(t, []string{"orders/12/A-100"}, store.puts)
	projection, ok := store.payloads[0].(map[string]any)
	require.True(t, ok)
	pickup, ok := projection["pickup"].(*realtime.PickupInfo)
	require.True(t, ok, "projection missing the nested pickup block")
	assert.Equal(t, "Blue Olive", pickup.Name)
	assert.Equal(t, "+15550100", pickup.Phone)
	assert.Equal(t, "1 Harbour St", pickup.Address)
}

func TestAnnounceDeliveryRequest(t *testing.T) {
	t.Parallel()

	announcer, store, _ := newAnnouncer(t)
	announcer.AnnounceDeliveryRequest(context.Background(), order.DeliveryRequest{
		ID: "dr-9", WebsiteID: 12, ZoneID: 3, Status: "pending",
	})
	assert.Equal(t, []string{"orders_delivery/12/dr-9"}, store.puts)
}
