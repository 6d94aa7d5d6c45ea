package timelock

import (
	"fmt"
	"strings"
)

// Event is a notification about a state transition. Topics identify what
// happened (ie. "escrow", "lock"), Account optionally tags the event with the
// address it concerns and Payload carries the details.
type Event struct {
	Topics  []string
	Account Address
	Payload interface{}
}

// NewEvent returns an event for given module and action.
func NewEvent(module, action string, account Address, payload interface{}) Event {
	return Event{
		Topics:  []string{module, action},
		Account: account,
		Payload: payload,
	}
}

// Topic returns all topics joined with a slash, ie "escrow/lock".
func (e Event) Topic() string {
	return strings.Join(e.Topics, "/")
}

// String returns a human readable representation of the event.
func (e Event) String() string {
	if len(e.Account) == 0 {
		return fmt.Sprintf("%s %+v", e.Topic(), e.Payload)
	}
	return fmt.Sprintf("%s %s %+v", e.Topic(), e.Account, e.Payload)
}

// EventSink receives published events. Publishing is fire-and-forget,
// an implementation must not block and cannot fail the operation.
type EventSink interface {
	Publish(Event)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(Event)

// Publish calls the function.
func (fn EventSinkFunc) Publish(e Event) {
	fn(e)
}

// NopEventSink drops all events.
type NopEventSink struct{}

// Publish implements EventSink
func (NopEventSink) Publish(Event) {}

// EventBuffer collects events in memory. It is used to hold back events of
// an operation until that operation is known to be committed.
type EventBuffer struct {
	events []Event
}

var _ EventSink = (*EventBuffer)(nil)

// Publish appends the event to the buffer.
func (b *EventBuffer) Publish(e Event) {
	b.events = append(b.events, e)
}

// Events returns all buffered events in publication order.
func (b *EventBuffer) Events() []Event {
	return b.events
}
