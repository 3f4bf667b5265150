// Package event provides the in-process publish/subscribe bus shared by the
// simulation core. A Bus is constructed explicitly and injected into the
// components that need it; there is no process-wide instance.
//
// Delivery is synchronous and unbuffered: Publish calls every handler that is
// subscribed when the event fires, in subscription order, before it returns.
// Handlers may subscribe or unsubscribe (themselves or others) while a
// dispatch is in progress.
package event

import (
	"sync"
	"sync/atomic"
)

// Topic names an event stream carrying payloads of type T.
//
// Invariant: topic names are unique across payload types.
type Topic[T any] struct {
	name string
}

// NewTopic declares a topic. Topics are normally package-level variables
// declared next to the component that produces the event.
func NewTopic[T any](name string) Topic[T] {
	return Topic[T]{name: name}
}

// Name returns the topic name.
func (t Topic[T]) Name() string { return t.name }

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	bus     *Bus
	topic   string
	handler any
	removed atomic.Bool
}

// Unsubscribe detaches the handler. Safe to call more than once and from
// inside a handler during dispatch; a removed handler is skipped by any
// dispatch still in progress.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.removed.Swap(true) {
		return
	}
	s.bus.remove(s)
}

// Active reports whether the subscription is still attached.
func (s *Subscription) Active() bool {
	return s != nil && !s.removed.Load()
}

// Bus routes published events to subscribed handlers.
// Subscribe and Unsubscribe are safe for concurrent use; Publish is expected
// to be called from the simulation goroutine.
type Bus struct {
	mu   sync.Mutex
	subs map[string][]*Subscription
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]*Subscription)}
}

// Subscribe registers fn for events on topic.
//
// Precondition: b and fn must not be nil.
// Postcondition: fn receives every event published on topic until the
// returned Subscription is unsubscribed.
func Subscribe[T any](b *Bus, topic Topic[T], fn func(T)) *Subscription {
	if fn == nil {
		panic("event.Subscribe: handler must not be nil")
	}
	s := &Subscription{bus: b, topic: topic.name, handler: fn}
	b.mu.Lock()
	b.subs[topic.name] = append(b.subs[topic.name], s)
	b.mu.Unlock()
	return s
}

// Publish delivers payload to every current subscriber of topic and returns
// the number of handlers invoked.
func Publish[T any](b *Bus, topic Topic[T], payload T) int {
	b.mu.Lock()
	snapshot := append([]*Subscription(nil), b.subs[topic.name]...)
	b.mu.Unlock()

	delivered := 0
	for _, s := range snapshot {
		if s.removed.Load() {
			continue
		}
		fn, ok := s.handler.(func(T))
		if !ok {
			continue
		}
		fn(payload)
		delivered++
	}
	return delivered
}

// SubscriberCount returns the number of live subscriptions on the named topic.
func (b *Bus) SubscriberCount(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[name])
}

func (b *Bus) remove(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[s.topic]
	for i, cur := range list {
		if cur == s {
			// Copy rather than splice in place: a dispatch may hold the old slice.
			next := make([]*Subscription, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			if len(next) == 0 {
				delete(b.subs, s.topic)
			} else {
				b.subs[s.topic] = next
			}
			return
		}
	}
}
