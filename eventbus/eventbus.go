// Package eventbus provides a small generic pub/sub primitive with
// reference-counted subscription handles: dropping (Unsubscribe-ing) the
// last handle tears down the bus's bookkeeping for that subscriber, so
// callers never need ad-hoc subscriber counters.
package eventbus

import "sync"

// Bus fans a single event type T out to an arbitrary number of
// subscribers. The zero value is not usable; use New.
type Bus[T any] struct {
	mu   sync.Mutex
	subs map[int]func(T)
	next int
}

// New returns a ready-to-use Bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{subs: make(map[int]func(T))}
}

// Subscription is a handle returned by Subscribe. Calling Unsubscribe
// more than once is a no-op.
type Subscription struct {
	unsubscribe func()
	once        sync.Once
}

// Unsubscribe removes the associated callback from the bus. Idempotent.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
	})
}

// Subscribe registers cb to receive every future Publish call. The
// returned Subscription must be retained; dropping it without calling
// Unsubscribe leaks the callback. There is no finalizer magic here,
// lifetime is explicit.
func (b *Bus[T]) Subscribe(cb func(T)) *Subscription {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = cb
	b.mu.Unlock()

	return &Subscription{unsubscribe: func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}}
}

// Publish defensively copies the current subscriber list and calls each
// of them with v. Copying before dispatch means a callback that
// subscribes or unsubscribes during Publish cannot corrupt this pass,
// and cannot mutate core state out from under the bus.
func (b *Bus[T]) Publish(v T) {
	b.mu.Lock()
	cbs := make([]func(T), 0, len(b.subs))
	for _, cb := range b.subs {
		cbs = append(cbs, cb)
	}
	b.mu.Unlock()

	for _, cb := range cbs {
		cb(v)
	}
}

// Len returns the current subscriber count. Intended for tests.
func (b *Bus[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
