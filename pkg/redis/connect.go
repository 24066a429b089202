package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect establishes a connection to a Redis server using the provided
// configuration. It attempts to connect multiple times based on the
// RetryAttempts config value, with a delay between attempts specified by
// RetryInterval.
//
// Returns ErrFailedToParseRedisConnString if the connection URL is invalid,
// or ErrRedisNotReady if all connection attempts fail.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	redisConnOpt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	for range cfg.RetryAttempts {
		redisClient := redis.NewClient(redisConnOpt)

		if err := redisClient.Ping(ctx).Err(); err == nil {
			return redisClient, nil
		}

		_ = redisClient.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		default:
			time.Sleep(cfg.RetryInterval)
		}
	}

	return nil, ErrRedisNotReady
}
