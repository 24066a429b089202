package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderkit/orderkit/modules/catalog"
	"github.com/orderkit/orderkit/pkg/menucache"
)

type stubSource struct {
	restaurantCalls atomic.Int64
	productCalls    atomic.Int64
}

func (s *stubSource) Restaurant(_ context.Context, id int64) (*menucache.Restaurant, error) {
	s.restaurantCalls.Add(1)
	if id != 7 {
		return nil, menucache.ErrNotFound
	}
	return &menucache.Restaurant{ID: 7, Name: "Trattoria", Published: true}, nil
}

func (s *stubSource) Products(context.Context, int64) ([]menucache.Product, error) {
	s.productCalls.Add(1)
	return []menucache.Product{{ID: 1, WebsiteID: 7, Name: "Margherita", Price: 9.5}}, nil
}

func (s *stubSource) Offers(context.Context, int64, time.Time) ([]menucache.Offer, error) {
	return []menucache.Offer{{ID: 3, WebsiteID: 7, Title: "Lunch deal"}}, nil
}

func (s *stubSource) BusinessHours(context.Context, int64) ([]menucache.BusinessHour, error) {
	return []menucache.BusinessHour{{WebsiteID: 7, Weekday: 1, OpensAt: "09:00", ClosesAt: "22:00"}}, nil
}

func (s *stubSource) AllRestaurants(context.Context, bool) ([]menucache.Restaurant, error) {
	return []menucache.Restaurant{{ID: 7, Name: "Trattoria", Published: true}}, nil
}

func (s *stubSource) AllRestaurantsIncludingUnpublished(context.Context) ([]menucache.Restaurant, error) {
	return []menucache.Restaurant{{ID: 7}, {ID: 8}}, nil
}

func newServer(t *testing.T) (*httptest.Server, *stubSource) {
	t.Helper()

	store := menucache.NewMemoryStore()
	t.Cleanup(store.Stop)
	source := &stubSource{}
	cache := menucache.New(store, source, menucache.Config{
		RestaurantTTL: time.Hour,
		ProductsTTL:   time.Hour,
		ListTTL:       time.Hour,
	})

	srv := httptest.NewServer(catalog.Router(cache, nil))
	t.Cleanup(srv.Close)
	return srv, source
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestCatalogReads(t *testing.T) {
	t.Parallel()

	t.Run("serves a restaurant and caches it", func(t *testing.T) {
		t.Parallel()

		srv, source := newServer(t)

		var restaurant menucache.Restaurant
		status := getJSON(t, srv.URL+"/restaurants/7", &restaurant)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Trattoria", restaurant.Name)

		status = getJSON(t, srv.URL+"/restaurants/7", &restaurant)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, int64(1), source.restaurantCalls.Load())
	})

	t.Run("unknown restaurant is 404", func(t *testing.T) {
		t.Parallel()

		srv, _ := newServer(t)
		var restaurant menucache.Restaurant
		assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/restaurants/99", &restaurant))
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		t.Parallel()

		srv, _ := newServer(t)
		var restaurant menucache.Restaurant
		assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/restaurants/abc", &restaurant))
	})

	t.Run("serves products, offers and hours", func(t *testing.T) {
		t.Parallel()

		srv, _ := newServer(t)

		var products []menucache.Product
		require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/restaurants/7/products", &products))
		require.Len(t, products, 1)
		assert.Equal(t, "Margherita", products[0].Name)

		var offers []menucache.Offer
		require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/restaurants/7/offers", &offers))
		require.Len(t, offers, 1)

		var hours []menucache.BusinessHour
		require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/restaurants/7/hours", &hours))
		require.Len(t, hours, 1)
	})

	t.Run("lists published and full sets separately", func(t *testing.T) {
		t.Parallel()

		srv, _ := newServer(t)

		var published []menucache.Restaurant
		require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/restaurants", &published))
		assert.Len(t, published, 1)

		var all []menucache.Restaurant
		require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/restaurants/all", &all))
		assert.Len(t, all, 2)
	})
}

func TestCatalogInvalidation(t *testing.T) {
	t.Parallel()

	srv, source := newServer(t)

	var products []menucache.Product
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/restaurants/7/products", &products))
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/restaurants/7/products", &products))
	require.Equal(t, int64(1), source.productCalls.Load())

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/restaurants/7/cache", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/restaurants/7/products", &products))
	assert.Equal(t, int64(2), source.productCalls.Load())
}
