package events

// Publisher is an interface for async, fire-and-forget events. No
// acknowledgement is given; delivery failures are the publisher's to log.
type Publisher interface {
	Publish(e Event)
}

// NullPublisher discards every event. Used when no event queue is
// configured, and in tests that do not assert on events.
type NullPublisher struct{}

// Publish satisfies the Publisher interface.
func (NullPublisher) Publish(e Event) {}
