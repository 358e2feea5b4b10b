package events

// Subscriber consumes broker events. Implementations adapt the event stream
// to one transport.
type Subscriber interface {
	// Send delivers an event. It must not block for long.
	Send(Event) error

	// Close shuts the subscriber down.
	Close() error
}
