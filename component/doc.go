// Package component defines the lifecycle contract shared by the pieces
// that make up a running newsfeed process: the news API adapter, the
// search pipeline, the SSE hub and the HTTP server.
//
// A Registry starts components in registration order, stops them in
// reverse order and aggregates their health.
package component
