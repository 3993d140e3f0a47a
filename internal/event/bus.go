// Package event provides a publish/subscribe bus whose registry holds
// subscribers weakly. A Subscription handle is the only strong owner of its
// callback; once the handle becomes unreachable the callback stops firing and
// its registry slot is compacted on the next Notify.
package event

import (
	"sync"
	"weak"
)

type holder[M any] struct {
	fn func(M)
}

// Subscription keeps a callback registered for as long as it is reachable.
type Subscription[M any] struct {
	h   *holder[M]
	bus *Bus[M]
}

// Unsubscribe removes the callback immediately. It is safe to call more than
// once and on a nil Subscription.
func (s *Subscription[M]) Unsubscribe() {
	if s == nil || s.bus == nil || s.h == nil {
		return
	}
	s.bus.remove(weak.Make(s.h))
	s.h = nil
}

// Bus delivers messages of type M to its subscribers.
//
// Callbacks run synchronously on the notifying goroutine, in registration
// order, with no bus lock held. A callback must not synchronously lock the
// object that is notifying it; hand the work off to another goroutine instead.
type Bus[M any] struct {
	mu      sync.Mutex
	entries []weak.Pointer[holder[M]]
}

// New returns an empty Bus.
func New[M any]() *Bus[M] {
	return &Bus[M]{}
}

// Subscribe registers fn and returns the handle that owns it.
func (b *Bus[M]) Subscribe(fn func(M)) *Subscription[M] {
	h := &holder[M]{fn: fn}
	b.mu.Lock()
	b.entries = append(b.entries, weak.Make(h))
	b.mu.Unlock()
	return &Subscription[M]{h: h, bus: b}
}

// Notify invokes every live subscriber with msg. Expired subscribers are
// skipped and dropped from the registry after the pass.
func (b *Bus[M]) Notify(msg M) {
	b.mu.Lock()
	snapshot := make([]weak.Pointer[holder[M]], len(b.entries))
	copy(snapshot, b.entries)
	b.mu.Unlock()

	expired := false
	for _, wp := range snapshot {
		h := wp.Value()
		if h == nil {
			expired = true
			continue
		}
		h.fn(msg)
	}

	if expired {
		b.compact()
	}
}

// Len reports the number of registry slots, live or not yet compacted.
func (b *Bus[M]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

func (b *Bus[M]) compact() {
	b.mu.Lock()
	defer b.mu.Unlock()
	live := b.entries[:0]
	for _, wp := range b.entries {
		if wp.Value() != nil {
			live = append(live, wp)
		}
	}
	clear(b.entries[len(live):])
	b.entries = live
}

func (b *Bus[M]) remove(target weak.Pointer[holder[M]]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, wp := range b.entries {
		if wp == target {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return
		}
	}
}
