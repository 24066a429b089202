// Package sse implements scoped server-sent-event broadcasting for live
// order updates.
//
// Two audiences exist: restaurant admin dashboards subscribe per restaurant
// (AdminScope) and customers track a single order (OrderScope). Events for
// one scope are never visible to another.
//
// The Broadcaster serializes each event once and fans the wire frame out to
// every subscriber of the scope. Subscribers that stop draining their
// channel are dropped inline rather than blocking the broadcast; a scope
// with no subscribers makes the broadcast a no-op. Delivery is best-effort
// and Broadcast never reports failure to the caller.
//
// Frames use the standard SSE format, one data line per event:
//
//	data: {"type":"new_order","order":{...}}
//
// The registry is in-process only. Deployments running more than one
// instance either pin a scope's subscribers to one instance or swap the
// Broadcaster for a shared pub/sub bus.
package sse
