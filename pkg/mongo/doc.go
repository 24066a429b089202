// Package mongo provides connection helpers for the MongoDB deployment used
// as one of the realtime projection store backends.
//
// The realtime package talks to the store through its own ConditionalStore
// interface; this package only owns connecting, pooling and health checks.
package mongo
