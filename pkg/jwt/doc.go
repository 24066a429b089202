// Package jwt implements minimal HMAC-SHA256 JWT signing and verification.
//
// The realtime package uses it to build the short-lived signed assertion that
// the trusted backend identity exchanges for a session token.
package jwt
