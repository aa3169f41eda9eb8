// Package config holds the engine's default settings. Actual values come
// from CLI flags and environment variables; these are the fallbacks.
package config

import "time"

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; without it the engine keeps all state in
	// memory.
	DefaultDatabaseURL = ""

	// DefaultQueueSize bounds the event bus queue.
	DefaultQueueSize = 1024

	// DefaultShutdownTimeout caps graceful shutdown: HTTP drain first, then
	// an event bus flush.
	DefaultShutdownTimeout = 10 * time.Second

	// DefaultDeadlineWindow is how far ahead the upcoming-deadlines report
	// looks when the request does not say.
	DefaultDeadlineWindow = 48 * time.Hour
)
