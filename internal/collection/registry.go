package collection

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Subscription is the handle returned by Subscribe. Release removes the
// listener from the registry; it is idempotent and safe to call from inside
// a notification.
type Subscription struct {
	once    sync.Once
	release func()
}

// Release unsubscribes the listener. Calling Release on a nil or already
// released subscription is a no-op.
func (s *Subscription) Release() {
	if s == nil || s.release == nil {
		return
	}
	s.once.Do(s.release)
}

// registry is an ordered list of listeners with synchronous dispatch.
//
// The registry has its own mutex, independent of the base lock, so a
// listener can release itself (or another listener) mid-dispatch.
// Dispatch iterates a snapshot; entries released during dispatch are
// skipped from that point on.
type registry[E any] struct {
	mu      sync.Mutex
	entries []*registryEntry[E]
}

type registryEntry[E any] struct {
	fn       func(E)
	released atomic.Bool
}

func newRegistry[E any]() *registry[E] {
	return &registry[E]{}
}

// add appends fn to the end of the dispatch order.
func (r *registry[E]) add(fn func(E)) *Subscription {
	entry := &registryEntry[E]{fn: fn}

	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()

	return &Subscription{release: func() { r.remove(entry) }}
}

func (r *registry[E]) remove(entry *registryEntry[E]) {
	entry.released.Store(true)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = slices.DeleteFunc(r.entries, func(e *registryEntry[E]) bool {
		return e == entry
	})
}

// dispatch invokes every live listener in subscription order.
// A no-op over an empty registry.
func (r *registry[E]) dispatch(ev E) {
	r.mu.Lock()
	if len(r.entries) == 0 {
		r.mu.Unlock()
		return
	}
	snapshot := slices.Clone(r.entries)
	r.mu.Unlock()

	for _, entry := range snapshot {
		if entry.released.Load() {
			continue
		}
		entry.fn(ev)
	}
}

// len returns the number of live listeners.
func (r *registry[E]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
