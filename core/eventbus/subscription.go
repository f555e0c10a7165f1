package eventbus

import (
	"sync"

	"github.com/ralfpopescu/scribe-core/core/events"
)

// TODO: Optimize memory at some point, it is not a great idea to just append
// to a slice when we already consumed a part of it. But it needs to be synced
// properly, probably a ring buffer makes sense.

// Subscription is one subscriber's cursor over a topic's stream. Events are
// buffered without bound so the publisher is never backpressured.
type Subscription struct {
	bus   *Bus
	topic Topic

	mu           sync.Mutex
	queue        []events.Event
	consumed     int
	closed       bool
	updateSignal chan struct{}
}

func newSubscription(bus *Bus, topic Topic) *Subscription {
	return &Subscription{
		bus:          bus,
		topic:        topic,
		updateSignal: make(chan struct{}, 1),
	}
}

// Topic returns the key this subscription is registered for.
func (s *Subscription) Topic() Topic {
	return s.topic
}

func (s *Subscription) enqueue(event events.Event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, event)
	s.mu.Unlock()
	s.signalUpdate()
}

// Events is an iterator over the subscription's stream in publish order. It
// blocks while the queue is drained and the subscription is still open, and
// returns only once Close is called (after yielding anything still queued).
func (s *Subscription) Events(yield func(events.Event) bool) {
	for {
		s.mu.Lock()
		if s.consumed < len(s.queue) {
			event := s.queue[s.consumed]
			s.consumed++
			s.mu.Unlock()
			if !yield(event) {
				return
			}
			continue
		}

		if s.closed {
			s.mu.Unlock()
			return
		}

		s.mu.Unlock()
		<-s.updateSignal
	}
}

// Close detaches the subscription from the bus. Events published after Close
// are not observed; a blocked Events iterator wakes up and returns.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.bus.unsubscribe(s)
	s.signalUpdate()
}

func (s *Subscription) signalUpdate() {
	select {
	case s.updateSignal <- struct{}{}:
	default:
	}
}
