// Package push delivers notifications to device registrations through the
// push gateway.
//
// SendToMany issues one multicast call rather than N sequential sends and
// classifies each per-token outcome: registrations the gateway reports as
// invalid or unregistered are returned to the caller for deletion from its
// registration store. Data payload values are coerced to strings before
// send, since push gateways generally require string-only data maps.
//
// Initialization is lazy and idempotent: the gateway client is built once
// per process from an environment- or file-supplied credential on first use.
// Without a credential the dispatcher runs disabled and every send reports
// failure without throwing, so order processing continues with push off.
package push
