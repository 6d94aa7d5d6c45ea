package weavetest

import (
	"sync"

	"github.com/iov-one/timelock"
)

// EventRecorder is an event sink that remembers all published events.
type EventRecorder struct {
	mu     sync.Mutex
	events []timelock.Event
}

var _ timelock.EventSink = (*EventRecorder)(nil)

// Publish implements timelock.EventSink
func (r *EventRecorder) Publish(e timelock.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of all recorded events.
func (r *EventRecorder) Events() []timelock.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	cpy := make([]timelock.Event, len(r.events))
	copy(cpy, r.events)
	return cpy
}

// Topics returns the topic of every recorded event, in publication order.
func (r *EventRecorder) Topics() []string {
	events := r.Events()
	topics := make([]string, len(events))
	for i, e := range events {
		topics[i] = e.Topic()
	}
	return topics
}

// Reset drops all recorded events.
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
