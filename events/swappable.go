package events

import "sync"

// SwappablePublisher delegates to an inner Publisher that can be replaced
// at runtime, as when broker rediscovery yields a new connection. Publish
// and Swap are safe for concurrent use, so a rediscovery goroutine can
// swap while request handlers publish.
type SwappablePublisher struct {
	mu    sync.RWMutex
	inner Publisher
}

// NewSwappablePublisher wraps an initial Publisher.
func NewSwappablePublisher(p Publisher) *SwappablePublisher {
	return &SwappablePublisher{inner: p}
}

// Publish satisfies the Publisher interface.
func (s *SwappablePublisher) Publish(e Event) {
	s.mu.RLock()
	p := s.inner
	s.mu.RUnlock()
	p.Publish(e)
}

// Swap replaces the inner publisher. Events already handed to the old
// publisher are its own to flush.
func (s *SwappablePublisher) Swap(p Publisher) {
	s.mu.Lock()
	s.inner = p
	s.mu.Unlock()
}
