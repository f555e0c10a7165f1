// Package eventbus routes published events to subscribers by topic key.
//
// A topic key is the (kind, session id) pair. Delivery preserves publish
// order per key, never replays events to late subscribers, and never blocks:
// each subscription buffers independently, so a slow consumer cannot stall
// the publisher or its siblings.
package eventbus

import (
	"slices"
	"sync"

	"github.com/ralfpopescu/scribe-core/core/events"
)

// Topic is the routing key for published events.
type Topic struct {
	Kind      string
	SessionID string
}

// Bus is an in-process fan-out router. The zero value is not usable; create
// one with New.
type Bus struct {
	mu            sync.RWMutex
	subscriptions map[Topic][]*Subscription
}

func New() *Bus {
	return &Bus{subscriptions: make(map[Topic][]*Subscription)}
}

// Publish delivers event to every subscription currently registered for
// topic. Publishing to a key with no subscribers is a no-op.
func (b *Bus) Publish(topic Topic, event events.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, subscription := range b.subscriptions[topic] {
		subscription.enqueue(event)
	}
}

// Subscribe registers a new subscription for topic. Every call gets an
// independent cursor that only observes events published after this call.
func (b *Bus) Subscribe(topic Topic) *Subscription {
	subscription := newSubscription(b, topic)

	b.mu.Lock()
	b.subscriptions[topic] = append(b.subscriptions[topic], subscription)
	b.mu.Unlock()

	return subscription
}

func (b *Bus) unsubscribe(subscription *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	remaining := slices.DeleteFunc(b.subscriptions[subscription.topic], func(s *Subscription) bool {
		return s == subscription
	})
	if len(remaining) == 0 {
		delete(b.subscriptions, subscription.topic)
		return
	}
	b.subscriptions[subscription.topic] = remaining
}
