// Package stream ties the order event fan-out together: it exposes the SSE
// endpoints for admin dashboards and customer order tracking, and the
// Announcer that the order-processing flow calls after committing a state
// change. Everything downstream of an announcement is best-effort and can
// never fail the calling flow.
package stream
