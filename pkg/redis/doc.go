// Package redis provides helpers for connecting to the Redis server backing
// the menu cache.
//
// It wraps the go-redis client with a Connect function that retries using the
// supplied configuration, and a health-check helper for liveness probes.
// Configuration is described by the Config struct whose fields are populated
// from environment variables via github.com/caarlos0/env.
package redis
