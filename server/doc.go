// Package server runs the newsfeed HTTP API on Gin, with h2c so HTTP/2
// clients can share the port.
//
// # Middleware
//
// server/middleware wraps the root mux:
//
//   - Recovery: panics become a 500 INTERNAL_ERROR body
//   - RequestID: X-Request-Id generation and propagation into log context
//   - RequestLogger: method, path, status and duration per request
//   - BodySizeLimit: request body cap
//
// CORS (gin-contrib/cors) runs on the Gin engine.
//
// # Endpoints
//
// server/endpoint holds the handlers:
//
//   - GET /health, GET /ready, GET /version
//   - PUT /api/v1/search, GET /api/v1/articles, GET /api/v1/articles/:id
//   - POST /api/v1/refresh, GET /api/v1/stream
package server
