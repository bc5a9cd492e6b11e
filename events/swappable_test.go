package events

import (
	"sync"
	"testing"
)

type countingPublisher struct {
	mu    sync.Mutex
	count int
}

func (c *countingPublisher) Publish(e Event) {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()
}

func (c *countingPublisher) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func TestSwappablePublisherDelegates(t *testing.T) {
	first := &countingPublisher{}
	second := &countingPublisher{}
	sp := NewSwappablePublisher(first)

	sp.Publish(MCFEvent{Action: ActionBranchesCreated})
	sp.Swap(second)
	sp.Publish(MCFEvent{Action: ActionBranchesDeleted})

	if first.total() != 1 {
		t.Errorf("first publisher should have seen 1 event, got %d", first.total())
	}
	if second.total() != 1 {
		t.Errorf("second publisher should have seen 1 event, got %d", second.total())
	}
}

func TestSwappablePublisherConcurrentSwap(t *testing.T) {
	first := &countingPublisher{}
	second := &countingPublisher{}
	sp := NewSwappablePublisher(first)

	const publishes = 100
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < publishes; i++ {
			sp.Publish(MCFEvent{Action: ActionBranchesUpdated})
		}
	}()
	go func() {
		defer wg.Done()
		sp.Swap(second)
	}()
	wg.Wait()

	if got := first.total() + second.total(); got != publishes {
		t.Errorf("expected %d events across both publishers, got %d", publishes, got)
	}
}
