// Package logger builds configured slog.Logger instances for the order
// distribution core.
//
// It provides a functional-options factory around log/slog with environment
// presets, a handler decorator that injects request-scoped attributes from
// context, and a small set of domain attribute helpers (WebsiteID,
// OrderNumber, Channel, CacheKey, Error) used by the best-effort failure
// paths across the core.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithProduction("orderkit"),
//	    logger.WithContextValue("request_id", requestIDKey),
//	)
//	logger.SetAsDefault(log)
package logger
