package sse

// Event names written on the stream.
const (
	// EventTypeConnected is sent once when a client connects.
	EventTypeConnected = "connected"

	// EventTypeResults carries a published search state.
	EventTypeResults = "results"

	// EventTypeError is sent when an event could not be encoded.
	EventTypeError = "error"
)

// Event is one server-sent event.
type Event struct {
	Type string
	Data []byte
}

// Broadcaster sends events to connected clients.
type Broadcaster interface {
	// BroadcastToPattern sends ev to all clients whose ID matches pattern.
	// Pattern uses glob-style matching (e.g. "search:*").
	BroadcastToPattern(pattern string, ev Event)
}
