package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Healthcheck returns a closure that validates database connectivity for
// health endpoints. The closure form keeps compatibility with health check
// registries that expect func(context.Context) error.
func Healthcheck(conn *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := conn.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
