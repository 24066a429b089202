package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// WebsiteID records the restaurant identifier under the key "website_id".
func WebsiteID(id int64) slog.Attr {
	return slog.Int64("website_id", id)
}

// OrderNumber records the order number under the key "order_number".
// If the number is empty, it returns an empty Attr.
func OrderNumber(n string) slog.Attr {
	if n == "" {
		return slog.Attr{}
	}
	return slog.String("order_number", n)
}

// Channel records a notification channel name under the key "channel".
func Channel(name string) slog.Attr {
	return slog.String("channel", name)
}

// CacheKey records a cache key under the key "cache_key".
func CacheKey(key string) slog.Attr {
	return slog.String("cache_key", key)
}
