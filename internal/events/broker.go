package events

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultBuffer is the per-subscriber queue length
const DefaultBuffer = 100

type subscriber struct {
	ch         chan Event
	collection string
}

// Broker fans events out to in-process subscribers. Delivery is non-blocking:
// a subscriber whose queue is full misses the event.
type Broker struct {
	mu       sync.RWMutex
	subs     map[*subscriber]struct{}
	buffer   int
	closed   bool
	done     chan struct{}
	sequence atomic.Int64
	dropped  atomic.Int64
}

// NewBroker creates a broker whose subscribers each queue up to buffer events
func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broker{
		subs:   make(map[*subscriber]struct{}),
		buffer: buffer,
		done:   make(chan struct{}),
	}
}

// SendEvent stamps the event with a sequence number and delivers it to every
// matching subscriber
func (b *Broker) SendEvent(event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	event.SequenceID = b.sequence.Add(1)
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	for s := range b.subs {
		if s.collection != "" && event.Collection != "" && s.collection != event.Collection {
			continue
		}
		// Non-blocking send - if subscriber is slow, skip
		select {
		case s.ch <- event:
		default:
			b.dropped.Add(1)
			slog.Debug("subscriber queue full, event dropped",
				"event_type", event.Type,
				"sequence_id", event.SequenceID)
		}
	}
	return nil
}

// Subscribe registers a subscriber until ctx is done or the broker closes
func (b *Broker) Subscribe(ctx context.Context, collection string) (<-chan Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}

	s := &subscriber{ch: make(chan Event, b.buffer), collection: collection}
	b.subs[s] = struct{}{}

	go func() {
		select {
		case <-ctx.Done():
			b.unsubscribe(s)
		case <-b.done:
		}
	}()
	return s.ch, nil
}

func (b *Broker) unsubscribe(s *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[s]; ok {
		delete(b.subs, s)
		close(s.ch)
	}
}

// Subscribers returns the number of active subscriptions
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped returns how many deliveries were skipped because a queue was full
func (b *Broker) Dropped() int64 {
	return b.dropped.Load()
}

// Close closes every subscription. Closing twice is a no-op.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	close(b.done)
	for s := range b.subs {
		delete(b.subs, s)
		close(s.ch)
	}
	return nil
}
