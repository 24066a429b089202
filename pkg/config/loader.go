package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// configCache provides a type-safe way to store and retrieve configuration
// instances using generics.
type configCache struct {
	mu     sync.RWMutex
	values map[string]any
	onces  map[string]*sync.Once
}

var (
	globalCache = &configCache{
		values: make(map[string]any),
		onces:  make(map[string]*sync.Once),
	}

	defaultEnvLoaded sync.Once
)

// Load loads environment variables into the provided configuration struct.
// It ensures that each unique configuration type is only loaded once
// throughout the application lifecycle.
//
// The function first attempts to load the default .env file if it hasn't been
// loaded yet, then parses environment variables into the struct based on
// field tags. Once a configuration type is successfully loaded, subsequent
// calls for the same type return the cached version.
//
// Example:
//
//	type CacheConfig struct {
//	    RedisURL string        `env:"REDIS_URL,required"`
//	    TTL      time.Duration `env:"CACHE_TTL" envDefault:"30m"`
//	}
//
//	var cfg CacheConfig
//	if err := config.Load(&cfg); err != nil {
//	    // handle error
//	}
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		// The .env file is optional; absence is not an error.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	typeName := getTypeName[T]()

	globalCache.mu.RLock()
	if cached, ok := globalCache.values[typeName]; ok {
		*v = cached.(T)
		globalCache.mu.RUnlock()
		return nil
	}
	globalCache.mu.RUnlock()

	globalCache.mu.Lock()
	once, exists := globalCache.onces[typeName]
	if !exists {
		once = new(sync.Once)
		globalCache.onces[typeName] = once
	}
	globalCache.mu.Unlock()

	var err error

	once.Do(func() {
		if parseErr := env.Parse(v); parseErr != nil {
			err = errors.Join(ErrParsingConfig, parseErr)
			return
		}

		globalCache.mu.Lock()
		globalCache.values[typeName] = *v // Store a copy to avoid external modifications
		globalCache.mu.Unlock()
	})

	if err != nil {
		return err
	}

	globalCache.mu.RLock()
	if cached, ok := globalCache.values[typeName]; ok {
		*v = cached.(T)
		globalCache.mu.RUnlock()
		return nil
	}
	globalCache.mu.RUnlock()

	return ErrConfigNotLoaded
}

// MustLoad works like Load but panics if configuration loading fails.
// Useful for configurations required for the application to start.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}

// getTypeName returns a string identifier for the generic type T.
func getTypeName[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return fmt.Sprintf("%T", *new(T))
	}
	return t.String()
}
