// Package server runs the dev remote store's HTTP transport.
//
// It owns the server lifecycle: startup, signal handling, and graceful
// shutdown.
package server
