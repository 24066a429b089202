// Package config provides a type-safe, generic and cached way to load
// application configuration from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11` to
// deliver a convenient API that:
//
//   - Loads values from the default `.env` file when present.
//   - Parses the environment into any Go struct using field tags.
//   - Caches each successfully loaded configuration type so it is only parsed
//     once for the lifetime of the process.
//   - Exposes MustLoad for configuration that is critical at startup.
//
// Internally the package keeps a singleton cache that stores parsed struct
// copies keyed by their fully-qualified type name. Each key also holds a
// sync.Once guaranteeing the parsing work runs at most once per configuration
// type even when accessed from multiple goroutines concurrently.
//
// # Usage
//
//	type PushConfig struct {
//	    GatewayURL string `env:"PUSH_GATEWAY_URL"`
//	    ServerKey  string `env:"PUSH_SERVER_KEY"`
//	}
//
//	var cfg PushConfig
//	config.MustLoad(&cfg)
package config
