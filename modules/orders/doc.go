// Package orders exposes the internal order-event endpoints: the announce
// surface the order-processing flow calls after committing state, and the
// exclusive-acceptance endpoint driver apps race on.
package orders
