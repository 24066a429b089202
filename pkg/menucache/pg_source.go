package menucache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned by the source when the requested entity does not exist.
var ErrNotFound = errors.New("menucache: entity not found")

// PGSource implements Source against the PostgreSQL source-of-truth.
type PGSource struct {
	pool *pgxpool.Pool
}

func NewPGSource(pool *pgxpool.Pool) *PGSource {
	return &PGSource{pool: pool}
}

const restaurantColumns = `id, name, slug, coalesce(description, '') as description,
	coalesce(phone, '') as phone, coalesce(address, '') as address, published, open_now`

func (s *PGSource) Restaurant(ctx context.Context, id int64) (*Restaurant, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+restaurantColumns+` FROM websites WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("query restaurant %d: %w", id, err)
	}

	restaurant, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[Restaurant])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("collect restaurant %d: %w", id, err)
	}
	return &restaurant, nil
}

func (s *PGSource) Products(ctx context.Context, websiteID int64) ([]Product, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, website_id, name, coalesce(description, '') as description,
			price, coalesce(category, '') as category, available
		 FROM products
		 WHERE website_id = $1
		 ORDER BY category, name`, websiteID)
	if err != nil {
		return nil, fmt.Errorf("query products for website %d: %w", websiteID, err)
	}
	products, err := pgx.CollectRows(rows, pgx.RowToStructByName[Product])
	if err != nil {
		return nil, fmt.Errorf("collect products for website %d: %w", websiteID, err)
	}
	return products, nil
}

// Offers filters by the validity window and the active flag at the query so
// the cache only ever holds currently valid offers.
func (s *PGSource) Offers(ctx context.Context, websiteID int64, today time.Time) ([]Offer, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, website_id, title, discount, valid_from, valid_until, active
		 FROM offers
		 WHERE website_id = $1
		   AND active
		   AND valid_from <= $2
		   AND valid_until >= $2
		 ORDER BY valid_until`, websiteID, today)
	if err != nil {
		return nil, fmt.Errorf("query offers for website %d: %w", websiteID, err)
	}
	offers, err := pgx.CollectRows(rows, pgx.RowToStructByName[Offer])
	if err != nil {
		return nil, fmt.Errorf("collect offers for website %d: %w", websiteID, err)
	}
	return offers, nil
}

func (s *PGSource) BusinessHours(ctx context.Context, websiteID int64) ([]BusinessHour, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT website_id, weekday, opens_at, closes_at, closed
		 FROM business_hours
		 WHERE website_id = $1
		 ORDER BY weekday`, websiteID)
	if err != nil {
		return nil, fmt.Errorf("query business hours for website %d: %w", websiteID, err)
	}
	hours, err := pgx.CollectRows(rows, pgx.RowToStructByName[BusinessHour])
	if err != nil {
		return nil, fmt.Errorf("collect business hours for website %d: %w", websiteID, err)
	}
	return hours, nil
}

func (s *PGSource) AllRestaurants(ctx context.Context, openNow bool) ([]Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM websites WHERE published ORDER BY name`
	if openNow {
		query = `SELECT ` + restaurantColumns + ` FROM websites WHERE published AND open_now ORDER BY name`
	}
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query restaurants: %w", err)
	}
	restaurants, err := pgx.CollectRows(rows, pgx.RowToStructByName[Restaurant])
	if err != nil {
		return nil, fmt.Errorf("collect restaurants: %w", err)
	}
	return restaurants, nil
}

func (s *PGSource) AllRestaurantsIncludingUnpublished(ctx context.Context) ([]Restaurant, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+restaurantColumns+` FROM websites ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query all restaurants: %w", err)
	}
	restaurants, err := pgx.CollectRows(rows, pgx.RowToStructByName[Restaurant])
	if err != nil {
		return nil, fmt.Errorf("collect all restaurants: %w", err)
	}
	return restaurants, nil
}
