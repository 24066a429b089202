package realtime_test

import (
	"context"
	"errors"
	"slices"
	stdsync "sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderkit/orderkit/pkg/order"
	"github.com/orderkit/orderkit/pkg/realtime"
)

// fakeStore is an in-memory ConditionalStore with linearizable CAS.
type fakeStore struct {
	mu      stdsync.Mutex
	puts    map[string]any
	patches map[string]map[string]any
	deletes []string
	nodes   map[string]map[string]string
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		puts:    make(map[string]any),
		patches: make(map[string]map[string]any),
		nodes:   make(map[string]map[string]string),
	}
}

func (s *fakeStore) Put(_ context.Context, path string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.puts[path] = value
	return nil
}

func (s *fakeStore) Patch(_ context.Context, path string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.patches[path] = fields
	return nil
}

func (s *fakeStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.deletes = append(s.deletes, path)
	return nil
}

func (s *fakeStore) CompareAndSwap(_ context.Context, path, field string, expect []string, next string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	node, ok := s.nodes[path]
	if !ok {
		node = make(map[string]string)
		s.nodes[path] = node
	}
	if current, ok := node[field]; ok && !slices.Contains(expect, current) {
		return false, nil
	}
	node[field] = next
	return true, nil
}

func TestSyncOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("projects the order with pending request status", func(t *testing.T) {
		t.Parallel()

		store := newFakeStore()
		sync := realtime.NewSync(store)

		sync.SyncOrder(ctx, order.Order{
			WebsiteID:     12,
			OrderNumber:   "A-100",
			CustomerName:  "Dana",
			CustomerPhone: "+4912345",
			Items:         []order.Item{{ID: 1, Name: "Pizza", Quantity: 2, Price: 9.5}},
			Subtotal:      19,
			Total:         22,
			Status:        order.StatusPending,
		})

		projection, ok := store.puts["orders/12/A-100"].(map[string]any)
		require.True(t, ok, "expected an order projection write")
		assert.Equal(t, "pending", projection["request_status"])
		assert.Equal(t, "Dana", projection["customer_name"])
		assert.NotContains(t, projection, "customer_email")
		assert.NotContains(t, projection, "address")
	})

	t.Run("nests pickup info when a resolver is configured", func(t *testing.T) {
		t.Parallel()

		store := newFakeStore()
		sync := realtime.NewSync(store, realtime.WithPickupResolver(
			func(_ context.Context, websiteID int64) (*realtime.PickupInfo, error) {
				return &realtime.PickupInfo{Name: "Trattoria", Address: "Main St 1"}, nil
			}))

		sync.SyncOrder(ctx, order.Order{WebsiteID: 12, OrderNumber: "A-101"})

		projection := store.puts["orders/12/A-101"].(map[string]any)
		pickup, ok := projection["pickup"].(*realtime.PickupInfo)
		require.True(t, ok)
		assert.Equal(t, "Trattoria", pickup.Name)
	})

	t.Run("projects without pickup when the resolver fails", func(t *testing.T) {
		t.Parallel()

		store := newFakeStore()
		sync := realtime.NewSync(store, realtime.WithPickupResolver(
			func(context.Context, int64) (*realtime.PickupInfo, error) {
				return nil, errors.New("lookup failed")
			}))

		sync.SyncOrder(ctx, order.Order{WebsiteID: 12, OrderNumber: "A-102"})

		projection := store.puts["orders/12/A-102"].(map[string]any)
		assert.NotContains(t, projection, "pickup")
	})

	t.Run("store failure is swallowed", func(t *testing.T) {
		t.Parallel()

		store := newFakeStore()
		store.err = errors.New("store down")
		sync := realtime.NewSync(store)

		assert.NotPanics(t, func() {
			sync.SyncOrder(ctx, order.Order{WebsiteID: 12, OrderNumber: "A-103"})
		})
	})
}

func TestSyncDeliveryRequest(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	sync := realtime.NewSync(store)

	sync.SyncDeliveryRequest(context.Background(), order.DeliveryRequest{
		ID:        "dr-9",
		WebsiteID: 12,
		ZoneID:    3,
		Status:    "pending",
	})

	projection, ok := store.puts["orders_delivery/12/dr-9"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(3), projection["zone_id"])
	assert.NotContains(t, projection, "created_at")
}

func TestTryAcceptOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("first caller wins", func(t *testing.T) {
		t.Parallel()

		store := newFakeStore()
		sync := realtime.NewSync(store)

		accepted, err := sync.TryAcceptOrder(ctx, 12, "A-200")
		require.NoError(t, err)
		assert.True(t, accepted)

		accepted, err = sync.TryAcceptOrder(ctx, 12, "A-200")
		require.NoError(t, err)
		assert.False(t, accepted)
	})

	t.Run("exactly one of many concurrent callers wins", func(t *testing.T) {
		t.Parallel()

		store := newFakeStore()
		sync := realtime.NewSync(store)

		const callers = 16
		results := make(chan bool, callers)
		var wg stdsync.WaitGroup
		for range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				accepted, err := sync.TryAcceptOrder(ctx, 12, "A-201")
				assert.NoError(t, err)
				results <- accepted
			}()
		}
		wg.Wait()
		close(results)

		winners := 0
		for accepted := range results {
			if accepted {
				winners++
			}
		}
		assert.Equal(t, 1, winners)
	})

	t.Run("acceptance is one-way", func(t *testing.T) {
		t.Parallel()

		store := newFakeStore()
		store.nodes["orders/12/A-202"] = map[string]string{"request_status": "Accepted"}
		sync := realtime.NewSync(store)

		accepted, err := sync.TryAcceptOrder(ctx, 12, "A-202")
		require.NoError(t, err)
		assert.False(t, accepted)
	})

	t.Run("store errors surface to the caller", func(t *testing.T) {
		t.Parallel()

		store := newFakeStore()
		store.err = errors.New("store down")
		sync := realtime.NewSync(store)

		_, err := sync.TryAcceptOrder(ctx, 12, "A-203")
		assert.Error(t, err)
	})
}

func TestUpdateAndRemoveOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newFakeStore()
	sync := realtime.NewSync(store)

	sync.UpdateOrderStatus(ctx, 12, "A-300", order.StatusPreparing)
	require.Contains(t, store.patches, "orders/12/A-300")
	assert.Equal(t, "preparing", store.patches["orders/12/A-300"]["status"])

	sync.RemoveOrder(ctx, 12, "A-300")
	assert.Contains(t, store.deletes, "orders/12/A-300")
}
