package menucache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/orderkit/orderkit/pkg/logger"
)

// Config holds the per-entity TTL classes. Volatile data (offers, lists)
// expires quickly; near-static data (business hours) lives for a day.
type Config struct {
	RestaurantTTL    time.Duration `env:"CACHE_RESTAURANT_TTL" envDefault:"1h"`
	ProductsTTL      time.Duration `env:"CACHE_PRODUCTS_TTL" envDefault:"30m"`
	OffersTTL        time.Duration `env:"CACHE_OFFERS_TTL" envDefault:"10m"`
	BusinessHoursTTL time.Duration `env:"CACHE_BUSINESS_HOURS_TTL" envDefault:"24h"`
	ListTTL          time.Duration `env:"CACHE_LIST_TTL" envDefault:"5m"`
}

// Service is the cache-aside read layer in front of the relational
// source-of-truth. Reads try the cache first and fall back to the source on a
// miss; the payload is then cached with the entity-specific TTL.
//
// The cache is strictly an optimization: any store error is logged and the
// read proceeds against the source, so callers never observe cache failures.
type Service struct {
	store  Store
	source Source
	cfg    Config
	log    *slog.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for store failure reporting.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source for the offers validity-window query.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates the cache service over the given store and source.
func New(store Store, source Source, cfg Config, opts ...Option) *Service {
	s := &Service{
		store:  store,
		source: source,
		cfg:    cfg,
		log:    slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lookup implements the cache-aside read path for a single key. Store errors
// on either side of the source query degrade to a plain source read.
func lookup[T any](ctx context.Context, s *Service, key string, ttl time.Duration, query func(context.Context) (T, error)) (T, error) {
	payload, err := s.store.Get(ctx, key)
	if err == nil {
		var value T
		if err := json.Unmarshal(payload, &value); err == nil {
			return value, nil
		}
		// Corrupt entry: treat as a miss and let the fresh write repair it.
		s.log.LogAttrs(ctx, slog.LevelWarn, "Dropping undecodable cache entry",
			logger.CacheKey(key),
		)
	} else if !errors.Is(err, ErrCacheMiss) {
		s.log.LogAttrs(ctx, slog.LevelWarn, "Cache read failed, falling back to source",
			logger.CacheKey(key),
			logger.Error(err),
		)
	}

	value, err := query(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if payload, err := json.Marshal(value); err == nil {
		if err := s.store.Set(ctx, key, payload, ttl); err != nil {
			s.log.LogAttrs(ctx, slog.LevelWarn, "Cache write failed",
				logger.CacheKey(key),
				logger.Error(err),
			)
		}
	}

	return value, nil
}

// Restaurant returns a single restaurant record, cached for the restaurant TTL.
func (s *Service) Restaurant(ctx context.Context, id int64) (*Restaurant, error) {
	return lookup(ctx, s, restaurantKey(id), s.cfg.RestaurantTTL, func(ctx context.Context) (*Restaurant, error) {
		return s.source.Restaurant(ctx, id)
	})
}

// Products returns a restaurant's menu items.
func (s *Service) Products(ctx context.Context, websiteID int64) ([]Product, error) {
	return lookup(ctx, s, productsKey(websiteID), s.cfg.ProductsTTL, func(ctx context.Context) ([]Product, error) {
		return s.source.Products(ctx, websiteID)
	})
}

// Offers returns a restaurant's currently valid offers. Validity filtering
// happens at the source query; cached payloads are valid as of last refresh
// with staleness bounded by the short offers TTL.
func (s *Service) Offers(ctx context.Context, websiteID int64) ([]Offer, error) {
	return lookup(ctx, s, offersKey(websiteID), s.cfg.OffersTTL, func(ctx context.Context) ([]Offer, error) {
		return s.source.Offers(ctx, websiteID, s.now())
	})
}

// BusinessHours returns a restaurant's weekly opening windows.
func (s *Service) BusinessHours(ctx context.Context, websiteID int64) ([]BusinessHour, error) {
	return lookup(ctx, s, businessHoursKey(websiteID), s.cfg.BusinessHoursTTL, func(ctx context.Context) ([]BusinessHour, error) {
		return s.source.BusinessHours(ctx, websiteID)
	})
}

// AllRestaurants returns the published restaurant list, optionally filtered
// to currently open ones. The two variants cache under separate keys.
func (s *Service) AllRestaurants(ctx context.Context, openNow bool) ([]Restaurant, error) {
	key := keyListAll
	if openNow {
		key = keyListOpenNow
	}
	return lookup(ctx, s, key, s.cfg.ListTTL, func(ctx context.Context) ([]Restaurant, error) {
		return s.source.AllRestaurants(ctx, openNow)
	})
}

// AllRestaurantsIncludingUnpublished returns every restaurant regardless of
// publication state, for admin listings.
func (s *Service) AllRestaurantsIncludingUnpublished(ctx context.Context) ([]Restaurant, error) {
	return lookup(ctx, s, keyListIncludingUnpublished, s.cfg.ListTTL, func(ctx context.Context) ([]Restaurant, error) {
		return s.source.AllRestaurantsIncludingUnpublished(ctx)
	})
}

// invalidate deletes the named keys, logging rather than returning failures.
// A missed invalidation degrades to serving stale data until TTL, which is
// acceptable; raising would leak a cache error past the component boundary.
func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if err := s.store.Delete(ctx, keys...); err != nil {
		s.log.LogAttrs(ctx, slog.LevelWarn, "Cache invalidation failed",
			slog.Any("keys", keys),
			logger.Error(err),
		)
	}
}

// InvalidateRestaurant removes every cache entry owned by the restaurant plus
// the list aggregates that embed it.
func (s *Service) InvalidateRestaurant(ctx context.Context, id int64) {
	keys := append([]string{
		restaurantKey(id),
		productsKey(id),
		offersKey(id),
		businessHoursKey(id),
	}, listKeys()...)
	s.invalidate(ctx, keys...)
}

// InvalidateProducts removes the cached menu for a restaurant.
func (s *Service) InvalidateProducts(ctx context.Context, websiteID int64) {
	s.invalidate(ctx, productsKey(websiteID))
}

// InvalidateOffers removes the cached offers for a restaurant.
func (s *Service) InvalidateOffers(ctx context.Context, websiteID int64) {
	s.invalidate(ctx, offersKey(websiteID))
}

// InvalidateBusinessHours removes the cached business hours for a restaurant.
func (s *Service) InvalidateBusinessHours(ctx context.Context, websiteID int64) {
	s.invalidate(ctx, businessHoursKey(websiteID))
}

// InvalidateRestaurantLists removes all list-level aggregate entries.
func (s *Service) InvalidateRestaurantLists(ctx context.Context) {
	s.invalidate(ctx, listKeys()...)
}
