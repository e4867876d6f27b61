// Package collection keeps a canonical, mutable base collection of model items
// in lockstep with any number of read-only derived collections whose elements
// are projections of the base elements at the same index.
//
// ARCHITECTURE:
//
// Base owns the canonical []M. Every successful mutation is applied to the
// base sequence and then broadcast, synchronously and in subscription order,
// as exactly one Notification to every attached listener:
//
//	caller → Base.Set/Append/AppendRange/Clear/Swap
//	       → base sequence updated, revision advanced
//	       → listeners invoked in order
//	       → each Derived applies the Operation to its own []W
//	       → each Observable re-emits a Change
//
// Nothing is queued. When the mutating call returns, every attached derived
// collection already satisfies:
//
//	len(derived) == len(base)
//	derived[i] == project(base[i]) for every valid i
//
// OPERATIONS:
//
// Operation is a sealed interface (marker method) with four variants:
//
//	Insert[W]{Index, Items}   Append and AppendRange (one batch, one notification)
//	Replace[W]{Index, Items}  Set
//	Swap{A, B}                Swap (index only, no projection)
//	Reset{}                   Clear (rebuild required)
//
// Insert and Replace carry wrapper payloads projected once by the base, so
// subscribers never need the projection for positional replay. Reset carries
// nothing: subscribers rebuild from the base. ApplyTo replays a structural
// operation onto any []W, which keeps the protocol testable in isolation.
//
// ATTACHMENT:
//
// Attach and AttachObservable are the only way to create derived collections.
// They rebuild from the base and subscribe atomically. Detach releases the
// subscription so the base no longer retains the derived collection.
//
// CONCURRENCY:
//
// By default nothing is locked: the protocol is single-threaded and
// synchronous. WithLocking serializes every mutation, its dispatch, and all
// reads of the base and its derived collections under one mutex per base.
// Listeners must not call back into the base they are subscribed to.
package collection
