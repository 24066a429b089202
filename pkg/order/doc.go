// Package order defines the shared domain types observed by the order
// distribution core: the authoritative order record, its lifecycle statuses,
// the delivery-dispatch projection, device registrations and per-restaurant
// notification settings.
//
// The types here are read-mostly. The order-processing flow that creates and
// mutates orders lives outside this module; every package in this core
// receives these values and projects, caches or announces them without ever
// writing back to the source-of-truth order tables.
package order
