// Package errors provides the structured error type used across newsfeed.
//
// An AppError carries a machine-readable code, a message safe to show to
// API clients, an HTTP status and an optional cause. Codes are grouped so
// callers can tell a request that could never succeed apart from an
// upstream failure.
package errors
