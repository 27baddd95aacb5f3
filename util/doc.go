// Package util holds small parsing helpers shared by config and server:
// human-readable sizes, secret masking and environment value cleanup.
package util
