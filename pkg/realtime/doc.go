// Package realtime mirrors order and delivery-request state into a remote
// multi-reader realtime store so driver, admin and customer apps observe the
// same order lifecycle, and arbitrates exclusive delivery-job acceptance.
//
// The store is abstracted behind ConditionalStore, whose one non-negotiable
// capability is an atomic conditional update: TryAcceptOrder must be
// linearizable across callers on separate devices, and that exclusivity has
// to come from the store itself. RESTStore provides it with ETag-guarded
// writes over a Firebase-style JSON tree; MongoStore with FindOneAndUpdate.
//
// Writes authenticate as a single trusted backend identity. TokenManager
// exchanges a short-lived signed assertion for a session token, refreshes it
// proactively before expiry, and discards it whenever a write fails so the
// next call starts from a fresh exchange.
//
// Apart from acceptance arbitration the whole package is a best-effort
// mirror: every failure is logged and contained, and the order-creation flow
// that triggered a sync always completes.
package realtime
