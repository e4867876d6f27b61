package collection

import (
	"fmt"
	"iter"
	"slices"
)

// Derived is a read-only collection whose element at index i is always the
// projection of the base element at index i.
//
// A Derived never projects on its own except to rebuild: Insert and Replace
// arrive with wrapper payloads already converted by the base, and Swap is
// purely positional.
//
// INVARIANTS:
//   - Len() == base.Len()
//   - Get(i) == project(base[i]) for every valid i
//
// Only the length is checked after every notification; a mismatch means a
// bug in the propagation code, so it panics with an *Error whose code is
// ErrCodeInvariantViolation. Element alignment is not re-projected here.
type Derived[M, W any] struct {
	base  *Base[M, W]
	items []W
	sub   *Subscription

	// hook runs after each applied notification (used by Observable).
	// old holds the replaced items for Replace, nil otherwise.
	hook func(op Operation[W], old []W)
}

// Attach creates a derived collection over base: it rebuilds from the base
// and subscribes, atomically.
func Attach[M, W any](base *Base[M, W]) *Derived[M, W] {
	d := &Derived[M, W]{base: base}
	d.attach()
	return d
}

func (d *Derived[M, W]) attach() {
	d.sub = d.base.Observe(
		func(_ int64, items []W) { d.items = items },
		d.handle,
	)
}

// Detach releases the subscription. The derived collection keeps its last
// contents and stops following the base. Idempotent.
func (d *Derived[M, W]) Detach() {
	d.sub.Release()
}

// Len returns the number of items.
func (d *Derived[M, W]) Len() int {
	d.base.mu.Lock()
	defer d.base.mu.Unlock()
	return len(d.items)
}

// Get returns the wrapper at index i.
func (d *Derived[M, W]) Get(i int) (W, error) {
	d.base.mu.Lock()
	defer d.base.mu.Unlock()
	return d.get(i)
}

func (d *Derived[M, W]) get(i int) (W, error) {
	if i < 0 || i >= len(d.items) {
		var zero W
		return zero, indexError("get", i, len(d.items))
	}
	return d.items[i], nil
}

// Items returns a copy of the derived sequence.
func (d *Derived[M, W]) Items() []W {
	d.base.mu.Lock()
	defer d.base.mu.Unlock()
	return slices.Clone(d.items)
}

// All iterates over a snapshot of the derived sequence.
func (d *Derived[M, W]) All() iter.Seq2[int, W] {
	return func(yield func(int, W) bool) {
		for i, w := range d.Items() {
			if !yield(i, w) {
				return
			}
		}
	}
}

// Find returns the wrapper for the first base model equal to m.
func (d *Derived[M, W]) Find(m M) (W, bool) {
	d.base.mu.Lock()
	defer d.base.mu.Unlock()

	index := d.base.indexOf(m)
	if index < 0 {
		var zero W
		return zero, false
	}
	w, err := d.get(index)
	if err != nil {
		var zero W
		return zero, false
	}
	return w, true
}

// handle applies one notification. It runs inside the base's dispatch, with
// the base lock held when locking is enabled.
func (d *Derived[M, W]) handle(n Notification[W]) {
	op := n.Op

	if _, ok := op.(Reset); ok {
		d.items = d.base.projectAll()
		d.check(op)
		if d.hook != nil {
			d.hook(op, nil)
		}
		return
	}

	var old []W
	if r, ok := op.(Replace[W]); ok && d.hook != nil {
		if r.Index >= 0 && r.Index+len(r.Items) <= len(d.items) {
			old = slices.Clone(d.items[r.Index : r.Index+len(r.Items)])
		}
	}

	items, err := ApplyTo(d.items, op)
	if err != nil {
		panic(invariantError(op.Kind().String(), fmt.Sprintf("revision %d: %v", n.Revision, err)))
	}
	d.items = items
	d.check(op)

	if d.hook != nil {
		d.hook(op, old)
	}
}

func (d *Derived[M, W]) check(op Operation[W]) {
	if got, want := len(d.items), len(d.base.items); got != want {
		panic(invariantError(op.Kind().String(),
			fmt.Sprintf("derived length %d, base length %d", got, want)))
	}
}
