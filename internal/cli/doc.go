// Package cli implements the newsfeed command line: serve, search, watch,
// config show and version.
package cli
