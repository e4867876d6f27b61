package collection

import (
	"fmt"
	"slices"
)

// Kind tags the variant of an Operation.
type Kind int

const (
	// KindInsert inserts one or more items at an index.
	KindInsert Kind = iota + 1
	// KindReplace overwrites items starting at an index.
	KindReplace
	// KindSwap exchanges the items at two indices.
	KindSwap
	// KindReset discards all derived state; subscribers rebuild from the base.
	KindReset
)

// String returns the lowercase name used in logs, traces and the journal.
func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindReplace:
		return "replace"
	case KindSwap:
		return "swap"
	case KindReset:
		return "reset"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "insert":
		return KindInsert, nil
	case "replace":
		return KindReplace, nil
	case "swap":
		return KindSwap, nil
	case "reset":
		return KindReset, nil
	default:
		return 0, fmt.Errorf("unknown operation kind %q", s)
	}
}

// Operation is a replayable description of one base mutation, typed for the
// wrapper sequence it will be applied to.
//
// This is a sealed interface - only Insert, Replace, Swap and Reset implement
// it. Subscribers switch over the concrete type:
//
//	switch op := n.Op.(type) {
//	case Insert[W]:
//	case Replace[W]:
//	case Swap:
//	case Reset:
//	}
type Operation[W any] interface {
	Kind() Kind
	operationNode() // Marker method - seals interface to this package
}

// Insert places Items at Index, shifting later items right.
// Items are already projected by the base.
type Insert[W any] struct {
	Index int
	Items []W
}

func (Insert[W]) Kind() Kind     { return KindInsert }
func (Insert[W]) operationNode() {}

// Replace overwrites len(Items) items starting at Index.
type Replace[W any] struct {
	Index int
	Items []W
}

func (Replace[W]) Kind() Kind     { return KindReplace }
func (Replace[W]) operationNode() {}

// Swap exchanges the items at A and B. It carries no payload and implements
// Operation[W] for every W.
type Swap struct {
	A, B int
}

func (Swap) Kind() Kind     { return KindSwap }
func (Swap) operationNode() {}

// Reset signals that positional replay is undefined for the mutation and
// every subscriber must rebuild from the base.
type Reset struct{}

func (Reset) Kind() Kind     { return KindReset }
func (Reset) operationNode() {}

// ApplyTo replays a structural operation onto seq and returns the updated
// slice. seq may be modified in place.
//
// Reset cannot be replayed positionally; ApplyTo returns an error wrapping
// ErrRebuildRequired and leaves seq untouched.
func ApplyTo[W any](seq []W, op Operation[W]) ([]W, error) {
	switch op := op.(type) {
	case Insert[W]:
		if op.Index < 0 || op.Index > len(seq) {
			return seq, indexError("insert", op.Index, len(seq))
		}
		return slices.Insert(seq, op.Index, op.Items...), nil

	case Replace[W]:
		if op.Index < 0 || op.Index+len(op.Items) > len(seq) {
			return seq, indexError("replace", op.Index, len(seq))
		}
		copy(seq[op.Index:], op.Items)
		return seq, nil

	case Swap:
		if op.A < 0 || op.A >= len(seq) {
			return seq, indexError("swap", op.A, len(seq))
		}
		if op.B < 0 || op.B >= len(seq) {
			return seq, indexError("swap", op.B, len(seq))
		}
		seq[op.A], seq[op.B] = seq[op.B], seq[op.A]
		return seq, nil

	case Reset:
		return seq, &Error{Code: ErrCodeRebuildRequired, Op: "reset", Message: "reset has no positional replay"}

	default:
		return seq, fmt.Errorf("unknown operation %T", op)
	}
}

// Notification is what a base delivers to its listeners after a mutation.
type Notification[W any] struct {
	// Collection is the ID of the base that mutated.
	Collection string

	// Revision is the base revision after the mutation.
	Revision int64

	// Op describes the mutation.
	Op Operation[W]
}
