package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderkit/orderkit/pkg/order"
)

// PGStore implements SettingsStore and DeviceStore against PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// NotificationSettings loads the restaurant's channel configuration. A
// restaurant without a settings row gets everything disabled, which the
// orchestrator treats as "notify nobody" rather than an error.
func (s *PGStore) NotificationSettings(ctx context.Context, websiteID int64) (order.NotificationSettings, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT website_id, enabled, email_enabled, push_enabled,
			sms_enabled, whats_app_enabled, coalesce(email, '') as email
		 FROM notification_settings
		 WHERE website_id = $1`, websiteID)
	if err != nil {
		return order.NotificationSettings{}, fmt.Errorf("%w: query for website %d: %w", ErrSettingsUnavailable, websiteID, err)
	}

	settings, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[order.NotificationSettings])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.NotificationSettings{WebsiteID: websiteID}, nil
		}
		return order.NotificationSettings{}, fmt.Errorf("%w: collect for website %d: %w", ErrSettingsUnavailable, websiteID, err)
	}
	return settings, nil
}

// Tokens returns every push registration token for the restaurant's admins.
func (s *PGStore) Tokens(ctx context.Context, websiteID int64) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT dr.token
		 FROM device_registrations dr
		 JOIN website_admins wa ON wa.admin_id = dr.owner_id
		 WHERE wa.website_id = $1`, websiteID)
	if err != nil {
		return nil, fmt.Errorf("query device tokens for website %d: %w", websiteID, err)
	}
	tokens, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect device tokens for website %d: %w", websiteID, err)
	}
	return tokens, nil
}

// DeleteTokens removes registrations the push gateway reported as dead.
func (s *PGStore) DeleteTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM device_registrations WHERE token = ANY($1)`, tokens); err != nil {
		return fmt.Errorf("delete device tokens: %w", err)
	}
	return nil
}
