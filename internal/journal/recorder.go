package journal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/lockstep/internal/collection"
)

// Recorder subscribes to a base collection and writes every notification to
// the journal.
//
// Writes happen inside the base's dispatch. A failed write does not stop the
// base: it is logged and kept, and Err returns the first one.
type Recorder[W any] struct {
	ctx          context.Context
	store        *Store
	collectionID string
	encode       Encoder[W]
	logger       *slog.Logger
	sub          *collection.Subscription

	mu      sync.Mutex
	err     error
	written int
}

// RecorderOption configures a Recorder.
type RecorderOption func(*recorderOptions)

type recorderOptions struct {
	logger *slog.Logger
}

// WithRecorderLogger sets the logger for write failures.
// Default: slog.Default().
func WithRecorderLogger(logger *slog.Logger) RecorderOption {
	return func(o *recorderOptions) {
		o.logger = logger
	}
}

// Record registers base under name and starts recording its operations.
//
// If the base is not empty, or has already been mutated, the current contents
// are written first as one Insert at the current revision, so that Replay
// reproduces the derived sequence from the journal alone.
func Record[M, W any](ctx context.Context, s *Store, base *collection.Base[M, W], name string, encode Encoder[W], opts ...RecorderOption) (*Recorder[W], error) {
	o := &recorderOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	if err := s.RegisterCollection(ctx, Collection{ID: base.ID(), Name: name}); err != nil {
		return nil, fmt.Errorf("record %s: %w", name, err)
	}

	r := &Recorder[W]{
		ctx:          ctx,
		store:        s,
		collectionID: base.ID(),
		encode:       encode,
		logger:       o.logger,
	}

	var snapshotErr error
	r.sub = base.Observe(
		func(revision int64, items []W) {
			if revision == 0 && len(items) == 0 {
				return
			}
			snapshotErr = r.write(revision, collection.Insert[W]{Index: 0, Items: items})
		},
		func(n collection.Notification[W]) {
			if err := r.write(n.Revision, n.Op); err != nil {
				r.fail(n.Revision, err)
			}
		},
	)

	if snapshotErr != nil {
		r.sub.Release()
		return nil, fmt.Errorf("record %s: snapshot: %w", name, snapshotErr)
	}

	return r, nil
}

// CollectionID returns the ID of the recorded base.
func (r *Recorder[W]) CollectionID() string {
	return r.collectionID
}

// Written returns the number of entries written so far.
func (r *Recorder[W]) Written() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written
}

// Err returns the first write failure, if any.
func (r *Recorder[W]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Stop releases the subscription. Idempotent.
func (r *Recorder[W]) Stop() {
	r.sub.Release()
}

func (r *Recorder[W]) write(revision int64, op collection.Operation[W]) error {
	e, err := NewEntry(r.collectionID, revision, op, r.encode)
	if err != nil {
		return err
	}
	if err := r.store.WriteOperation(r.ctx, e); err != nil {
		return err
	}

	r.mu.Lock()
	r.written++
	r.mu.Unlock()
	return nil
}

func (r *Recorder[W]) fail(revision int64, err error) {
	r.logger.Error("journal write failed",
		"collection", r.collectionID,
		"revision", revision,
		"error", err,
	)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err == nil {
		r.err = err
	}
}
