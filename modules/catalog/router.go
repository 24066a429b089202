package catalog

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/orderkit/orderkit/pkg/logger"
	"github.com/orderkit/orderkit/pkg/menucache"
)

// Router exposes the cached restaurant catalog.
//
//	GET    /restaurants                     published restaurants (?open_now=true filters)
//	GET    /restaurants/all                 every restaurant, including unpublished
//	GET    /restaurants/{websiteID}         one restaurant
//	GET    /restaurants/{websiteID}/products
//	GET    /restaurants/{websiteID}/offers  currently valid offers only
//	GET    /restaurants/{websiteID}/hours
//	DELETE /restaurants/{websiteID}/cache   drop every cached entity for the restaurant
//	DELETE /restaurants/cache               drop the cached restaurant lists
//
// All reads go through the cache-aside service; a cache outage degrades to
// source reads, never to request failures.
func Router(cache *menucache.Service, log *slog.Logger) chi.Router {
	if log == nil {
		log = slog.Default()
	}
	h := &handlers{cache: cache, log: log}

	r := chi.NewRouter()
	r.Get("/restaurants", h.listRestaurants)
	r.Get("/restaurants/all", h.listAllRestaurants)
	r.Delete("/restaurants/cache", h.invalidateLists)
	r.Route("/restaurants/{websiteID}", func(r chi.Router) {
		r.Get("/", h.restaurant)
		r.Get("/products", h.products)
		r.Get("/offers", h.offers)
		r.Get("/hours", h.businessHours)
		r.Delete("/cache", h.invalidateRestaurant)
	})
	return r
}

type handlers struct {
	cache *menucache.Service
	log   *slog.Logger
}

func (h *handlers) listRestaurants(w http.ResponseWriter, r *http.Request) {
	openNow := r.URL.Query().Get("open_now") == "true"
	restaurants, err := h.cache.AllRestaurants(r.Context(), openNow)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, restaurants)
}

func (h *handlers) listAllRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.cache.AllRestaurantsIncludingUnpublished(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, restaurants)
}

func (h *handlers) restaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := websiteID(w, r)
	if !ok {
		return
	}
	restaurant, err := h.cache.Restaurant(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, restaurant)
}

func (h *handlers) products(w http.ResponseWriter, r *http.Request) {
	id, ok := websiteID(w, r)
	if !ok {
		return
	}
	products, err := h.cache.Products(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, products)
}

func (h *handlers) offers(w http.ResponseWriter, r *http.Request) {
	id, ok := websiteID(w, r)
	if !ok {
		return
	}
	offers, err := h.cache.Offers(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, offers)
}

func (h *handlers) businessHours(w http.ResponseWriter, r *http.Request) {
	id, ok := websiteID(w, r)
	if !ok {
		return
	}
	hours, err := h.cache.BusinessHours(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, hours)
}

func (h *handlers) invalidateRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := websiteID(w, r)
	if !ok {
		return
	}
	h.cache.InvalidateRestaurant(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) invalidateLists(w http.ResponseWriter, r *http.Request) {
	h.cache.InvalidateRestaurantLists(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) respond(w http.ResponseWriter, r *http.Request, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.LogAttrs(r.Context(), slog.LevelWarn, "Failed to write catalog response",
			logger.Error(err),
		)
	}
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, menucache.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	h.log.LogAttrs(r.Context(), slog.LevelError, "Catalog read failed",
		logger.Error(err),
	)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func websiteID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "websiteID"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid restaurant id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
