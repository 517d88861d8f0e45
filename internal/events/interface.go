package events

import (
	"context"
	"errors"
)

// ErrClosed is returned when publishing to or subscribing on a closed publisher
var ErrClosed = errors.New("event publisher closed")

// EventPublisher defines the interface for sending and receiving events.
// This interface allows for loose coupling and easier testing by depending
// on behavior rather than concrete implementation.
type EventPublisher interface {
	// SendEvent delivers an event to current subscribers without blocking
	SendEvent(event Event) error

	// Subscribe returns a channel of events for one collection, or for every
	// collection when collection is empty. The channel closes when ctx is done
	// or the publisher is closed.
	Subscribe(ctx context.Context, collection string) (<-chan Event, error)

	// Close stops delivery and closes every subscription
	Close() error
}

// Compile-time verification that *Broker implements EventPublisher
var _ EventPublisher = (*Broker)(nil)
