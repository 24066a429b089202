// Package pg provides helpers for connecting to the PostgreSQL
// source-of-truth: a pgxpool connector with retry, a health-check closure,
// schema migration via goose, and error classification helpers used by the
// cache and notification query layers.
//
// The relational schema itself is owned by the order-processing service;
// this core only reads restaurant, menu, settings and device-registration
// data through the pool created here.
package pg
