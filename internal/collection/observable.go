package collection

import "slices"

// ChangeKind is the kind of a collection-changed notification.
type ChangeKind int

const (
	ChangeInsert ChangeKind = iota + 1
	ChangeReplace
	// ChangeRemove completes the standard shape. No base operation removes a
	// single item, so it is never emitted.
	ChangeRemove
	ChangeReset
)

// String returns the lowercase name used in traces.
func (k ChangeKind) String() string {
	switch k {
	case ChangeInsert:
		return "insert"
	case ChangeReplace:
		return "replace"
	case ChangeRemove:
		return "remove"
	case ChangeReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Change is a standard collection-changed notification.
type Change[W any] struct {
	Kind       ChangeKind
	StartIndex int
	Items      []W // new items; nil for Reset
	OldItems   []W // replaced items; Replace only
}

// Observable is a Derived that re-emits every applied notification as
// Change events to its own listeners.
//
//	Insert{i, items}  → Change{Insert, i, items}
//	Replace{i, items} → Change{Replace, i, items, old}
//	Swap{a, b}        → Change{Replace, a, ..}, Change{Replace, b, ..} (none when a == b)
//	Reset{}           → Change{Reset, 0, nil} after the rebuild
//
// Change listeners run inside the base's dispatch. They may read the
// Observable only through the Change payload; with WithLocking a read
// call would deadlock.
type Observable[M, W any] struct {
	*Derived[M, W]
	changes *registry[Change[W]]
}

// AttachObservable creates an observable derived collection over base.
func AttachObservable[M, W any](base *Base[M, W]) *Observable[M, W] {
	o := &Observable[M, W]{changes: newRegistry[Change[W]]()}
	o.Derived = &Derived[M, W]{base: base, hook: o.emit}
	o.attach()
	return o
}

// Subscribe registers fn to receive every subsequent Change.
func (o *Observable[M, W]) Subscribe(fn func(Change[W])) *Subscription {
	return o.changes.add(fn)
}

func (o *Observable[M, W]) emit(op Operation[W], old []W) {
	switch op := op.(type) {
	case Insert[W]:
		o.changes.dispatch(Change[W]{Kind: ChangeInsert, StartIndex: op.Index, Items: slices.Clone(op.Items)})

	case Replace[W]:
		o.changes.dispatch(Change[W]{Kind: ChangeReplace, StartIndex: op.Index, Items: slices.Clone(op.Items), OldItems: old})

	case Swap:
		if op.A == op.B {
			return
		}
		a, b := o.items[op.A], o.items[op.B]
		o.changes.dispatch(Change[W]{Kind: ChangeReplace, StartIndex: op.A, Items: []W{a}, OldItems: []W{b}})
		o.changes.dispatch(Change[W]{Kind: ChangeReplace, StartIndex: op.B, Items: []W{b}, OldItems: []W{a}})

	case Reset:
		o.changes.dispatch(Change[W]{Kind: ChangeReset})
	}
}
