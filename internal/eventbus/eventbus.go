// Package eventbus carries cycle-scoped events from the decision pipeline
// to observers such as the metrics recorder. Delivery is non-blocking: a
// slow observer drops events rather than stalling a cycle.
package eventbus

import (
	"sync"
	"time"
)

// Event is one cycle observation. Exactly one of the option fields is
// meaningful per Type.
type Event struct {
	Type    EventType
	CycleID string
	At      time.Time

	Trigger  string        // CycleStarted, CycleCompleted
	Duration time.Duration // CycleCompleted
	Failed   bool          // CycleCompleted
	Kind     string        // NotificationSent
	Success  bool          // NotificationSent, CalendarRefreshed
	Reason   string        // SuspensionDetected
}

// EventType enumerates the cycle events.
type EventType int

const (
	CycleStarted EventType = iota
	CycleCompleted
	NotificationSent
	SuspensionDetected
	CalendarRefreshed
)

// Bus fans events out to subscribers.
type Bus struct {
	mu     sync.RWMutex
	subs   []chan Event
	closed bool
}

// New creates an empty Bus.
func New() *Bus { return &Bus{} }

// Publish sends the event to all subscribers without blocking.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a subscriber and returns its channel.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, 16)
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
func (b *Bus) Unsubscribe(sub <-chan Event) {
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

// Close closes all subscriber channels and clears the list.
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
