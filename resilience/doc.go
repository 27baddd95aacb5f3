// Package resilience guards outbound calls to the news API.
//
//   - CircuitBreaker fails fast while the upstream keeps failing.
//   - RateLimiter paces requests with a token bucket (golang.org/x/time/rate).
//
// Calls are never retried here. A superseded search cancels its context,
// and cancellation is not counted as an upstream failure.
package resilience
