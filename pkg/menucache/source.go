package menucache

import (
	"context"
	"time"
)

// Restaurant is the cacheable restaurant record served to browsing clients.
type Restaurant struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	Published   bool   `json:"published"`
	OpenNow     bool   `json:"open_now"`
}

// Product is a menu item belonging to a restaurant.
type Product struct {
	ID          int64   `json:"id"`
	WebsiteID   int64   `json:"website_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	Available   bool    `json:"available"`
}

// Offer is a time-bounded promotion. Only offers whose validity window
// contains the query date are ever returned by the source.
type Offer struct {
	ID         int64     `json:"id"`
	WebsiteID  int64     `json:"website_id"`
	Title      string    `json:"title"`
	Discount   float64   `json:"discount"`
	ValidFrom  time.Time `json:"valid_from"`
	ValidUntil time.Time `json:"valid_until"`
	Active     bool      `json:"active"`
}

// BusinessHour is one weekday's opening window for a restaurant.
type BusinessHour struct {
	WebsiteID int64  `json:"website_id"`
	Weekday   int    `json:"weekday"`
	OpensAt   string `json:"opens_at"`
	ClosesAt  string `json:"closes_at"`
	Closed    bool   `json:"closed"`
}

// Source is the relational source-of-truth behind the cache. The schema and
// queries are owned by the order-processing service; this interface is the
// read surface the cache layer depends on.
//
// Offers performs validity-window and active-flag filtering at the query, so
// cached offer payloads are always "currently valid as of last refresh" with
// staleness bounded by the offers TTL.
type Source interface {
	Restaurant(ctx context.Context, id int64) (*Restaurant, error)
	Products(ctx context.Context, websiteID int64) ([]Product, error)
	Offers(ctx context.Context, websiteID int64, today time.Time) ([]Offer, error)
	BusinessHours(ctx context.Context, websiteID int64) ([]BusinessHour, error)
	AllRestaurants(ctx context.Context, openNow bool) ([]Restaurant, error)
	AllRestaurantsIncludingUnpublished(ctx context.Context) ([]Restaurant, error)
}
