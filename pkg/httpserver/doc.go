// Package httpserver wraps net/http with graceful shutdown, configurable
// timeouts, and health-check handlers.
//
// Run blocks until the context is cancelled or an interrupt/TERM signal is
// received, then drains in-flight requests within the shutdown deadline.
// Startup and shutdown failures are wrapped with the ErrStart and
// ErrShutdown sentinels for errors.Is inspection.
//
// The default write timeout is zero: the event-stream endpoints keep their
// responses open for the client connection's lifetime, and a write deadline
// would sever every stream when it expired.
package httpserver
