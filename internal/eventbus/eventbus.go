// Package eventbus implements a publish/subscribe bus for vesting events so
// in-process subscribers can observe every state-changing operation.
package eventbus

import (
	"sync"

	"github.com/kilianp07/vesting/core/events"
)

// Bus fans vesting events out to subscriber channels.
type Bus struct {
	mu     sync.RWMutex
	subs   []chan events.Event
	closed bool
}

// New creates a new Bus.
func New() *Bus { return &Bus{} }

// Emit publishes the event to all subscribers. Delivery is non-blocking: a
// subscriber that falls behind misses events rather than stalling an
// operation. Bus implements events.Emitter.
func (b *Bus) Emit(evt events.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
	return nil
}

// Subscribe registers a subscriber and returns its channel.
func (b *Bus) Subscribe() <-chan events.Event {
	ch := make(chan events.Event, 8)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs = append(b.subs, ch)
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus) Unsubscribe(sub <-chan events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Close closes the bus and all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
	b.mu.Unlock()
}
