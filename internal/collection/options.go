package collection

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
)

// Option configures a Base.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	locking bool
	idGen   IDGenerator
	equal   any // func(a, b M) bool, checked against M in New
}

// WithLogger sets the structured logger. Mutations and dispatch are logged
// at Debug level. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLocking serializes every mutation, its notification dispatch, and all
// reads of the base and its derived collections under one mutex.
// Default: no locking (single goroutine use).
func WithLocking() Option {
	return func(o *options) {
		o.locking = true
	}
}

// WithIDGenerator sets the generator for the base ID.
// Default: UUIDv7Generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(o *options) {
		o.idGen = gen
	}
}

// WithEqual sets the equality used by IndexOf and Find. M must match the
// model type of the base it is passed to; New panics otherwise.
//
// Default: == for comparable model types (pointer models compare by
// identity), reflect.DeepEqual for the rest and for comparable types whose
// values hold a non-comparable dynamic type.
func WithEqual[M any](equal func(a, b M) bool) Option {
	return func(o *options) {
		o.equal = equal
	}
}

// noLock is the default sync.Locker when locking is disabled.
type noLock struct{}

func (noLock) Lock()   {}
func (noLock) Unlock() {}

func (o *options) locker() sync.Locker {
	if o.locking {
		return &sync.Mutex{}
	}
	return noLock{}
}

func resolveEqual[M any](o *options) func(a, b M) bool {
	if o.equal != nil {
		fn, ok := o.equal.(func(a, b M) bool)
		if !ok {
			var zero M
			panic(fmt.Sprintf("collection: WithEqual got %T, want func(a, b %T) bool", o.equal, zero))
		}
		return fn
	}
	if reflect.TypeFor[M]().Comparable() {
		return comparableEqual[M]
	}
	return func(a, b M) bool { return reflect.DeepEqual(a, b) }
}

// comparableEqual is == for M, except that values holding a non-comparable
// dynamic type (an interface or an interface field carrying a slice, map or
// func) are compared with reflect.DeepEqual instead of panicking.
func comparableEqual[M any](a, b M) bool {
	if !reflect.ValueOf(&a).Elem().Comparable() || !reflect.ValueOf(&b).Elem().Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return any(a) == any(b)
}
