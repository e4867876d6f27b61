package collection

import (
	"iter"
	"log/slog"
	"slices"
	"sync"
)

// Base is the canonical, mutable collection of model items.
//
// Every successful mutation advances the revision and delivers exactly one
// Notification to every listener, in subscription order, before the
// mutating call returns. A failed mutation changes nothing and notifies
// nobody.
//
// Thread-safety: Base is not safe for concurrent use unless constructed with
// WithLocking.
type Base[M, W any] struct {
	id      string
	project func(M) W
	equal   func(a, b M) bool
	items   []M
	clock   *Clock
	mu      sync.Locker
	logger  *slog.Logger

	listeners *registry[Notification[W]]
}

// New creates an empty base. project converts a model into the wrapper type
// delivered to derived collections; it must be pure.
//
// Panics if project is nil.
func New[M, W any](project func(M) W, opts ...Option) *Base[M, W] {
	return NewFrom(project, nil, opts...)
}

// NewFrom creates a base holding a copy of initial.
func NewFrom[M, W any](project func(M) W, initial []M, opts ...Option) *Base[M, W] {
	if project == nil {
		panic("collection: nil projection")
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.idGen == nil {
		o.idGen = UUIDv7Generator{}
	}

	return &Base[M, W]{
		id:        o.idGen.Generate(),
		project:   project,
		equal:     resolveEqual[M](o),
		items:     slices.Clone(initial),
		clock:     NewClock(),
		mu:        o.locker(),
		logger:    o.logger,
		listeners: newRegistry[Notification[W]](),
	}
}

// ID returns the collection identifier assigned at construction.
func (b *Base[M, W]) ID() string {
	return b.id
}

// Revision returns the number of successful mutations so far.
func (b *Base[M, W]) Revision() int64 {
	return b.clock.Current()
}

// Len returns the number of items.
func (b *Base[M, W]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Get returns the model at index i.
func (b *Base[M, W]) Get(i int) (M, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i < 0 || i >= len(b.items) {
		var zero M
		return zero, indexError("get", i, len(b.items))
	}
	return b.items[i], nil
}

// Items returns a copy of the base sequence.
func (b *Base[M, W]) Items() []M {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.items)
}

// All iterates over a snapshot of the base sequence taken when iteration
// starts.
func (b *Base[M, W]) All() iter.Seq2[int, M] {
	return func(yield func(int, M) bool) {
		for i, m := range b.Items() {
			if !yield(i, m) {
				return
			}
		}
	}
}

// IndexOf returns the index of the first model equal to m, or -1.
func (b *Base[M, W]) IndexOf(m M) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.indexOf(m)
}

func (b *Base[M, W]) indexOf(m M) int {
	return slices.IndexFunc(b.items, func(x M) bool { return b.equal(x, m) })
}

// Set replaces the model at index i and emits Replace{i, [project(m)]}.
func (b *Base[M, W]) Set(i int, m M) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i < 0 || i >= len(b.items) {
		return indexError("set", i, len(b.items))
	}

	b.items[i] = m
	b.emit(Replace[W]{Index: i, Items: []W{b.project(m)}}, i, 1)
	return nil
}

// Append adds m at the end and emits Insert{len, [project(m)]}.
func (b *Base[M, W]) Append(m M) {
	b.mu.Lock()
	defer b.mu.Unlock()

	index := len(b.items)
	b.items = append(b.items, m)
	b.emit(Insert[W]{Index: index, Items: []W{b.project(m)}}, index, 1)
}

// AppendRange adds every model in ms at the end, in order, and emits a single
// Insert carrying all projected items. An empty ms is a no-op.
func (b *Base[M, W]) AppendRange(ms []M) {
	if len(ms) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	index := len(b.items)
	b.items = append(b.items, ms...)

	projected := make([]W, len(ms))
	for i, m := range ms {
		projected[i] = b.project(m)
	}
	b.emit(Insert[W]{Index: index, Items: projected}, index, len(ms))
}

// Clear empties the base and emits Reset. Listeners rebuild from the base,
// so Reset is emitted even when the base was already empty.
func (b *Base[M, W]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := len(b.items)
	clear(b.items)
	b.items = b.items[:0]
	b.emit(Reset{}, 0, count)
}

// Swap exchanges the models at i and j and emits Swap{i, j}. Nothing is
// projected. Swapping an index with itself still emits.
func (b *Base[M, W]) Swap(i, j int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i < 0 || i >= len(b.items) {
		return indexError("swap", i, len(b.items))
	}
	if j < 0 || j >= len(b.items) {
		return indexError("swap", j, len(b.items))
	}

	b.items[i], b.items[j] = b.items[j], b.items[i]
	b.emit(Swap{A: i, B: j}, i, 2)
	return nil
}

// Subscribe registers fn to receive every subsequent notification.
// Listeners are invoked in subscription order.
func (b *Base[M, W]) Subscribe(fn func(Notification[W])) *Subscription {
	return b.listeners.add(fn)
}

// Observe projects the current base sequence, hands it to init together
// with the current revision, and subscribes fn, all under the base lock.
// No notification can fall between the snapshot and the subscription.
func (b *Base[M, W]) Observe(init func(revision int64, items []W), fn func(Notification[W])) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	init(b.clock.Current(), b.projectAll())
	return b.listeners.add(fn)
}

// projectAll converts every model in order. Caller holds b.mu.
func (b *Base[M, W]) projectAll() []W {
	out := make([]W, len(b.items))
	for i, m := range b.items {
		out[i] = b.project(m)
	}
	return out
}

// emit stamps op with the next revision and dispatches it. Caller holds b.mu.
func (b *Base[M, W]) emit(op Operation[W], index, count int) {
	rev := b.clock.Next()

	b.logger.Debug("collection mutated",
		"collection", b.id,
		"op", op.Kind().String(),
		"index", index,
		"count", count,
		"revision", rev,
		"subscribers", b.listeners.len(),
	)

	b.listeners.dispatch(Notification[W]{
		Collection: b.id,
		Revision:   rev,
		Op:         op,
	})
}
