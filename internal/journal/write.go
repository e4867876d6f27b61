package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ErrRevisionConflict indicates that a collection already has a different
// operation recorded at the same revision.
var ErrRevisionConflict = errors.New("revision already recorded with different content")

// RegisterCollection inserts a collection record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency.
func (s *Store) RegisterCollection(ctx context.Context, c Collection) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (id, name)
		VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, c.ID, c.Name)
	if err != nil {
		return fmt.Errorf("register collection: %w", err)
	}
	return nil
}

// WriteOperation inserts an operation entry.
// Uses ON CONFLICT(id) DO NOTHING for idempotency: re-writing the identical
// entry is a no-op. A different entry at an already recorded
// (collection, revision) is a divergent history and fails with
// ErrRevisionConflict.
//
// Note: The collection referenced by CollectionID must exist (foreign key constraint).
func (s *Store) WriteOperation(ctx context.Context, e Entry) error {
	if e.ID == "" {
		return fmt.Errorf("write operation: entry has no id")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO operations
		(id, collection_id, revision, kind, start_index, other_index, items)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		e.ID,
		e.CollectionID,
		e.Revision,
		e.Kind.String(),
		e.Index,
		e.Other,
		string(e.Items),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("write operation %s revision %d: %w", e.CollectionID, e.Revision, ErrRevisionConflict)
		}
		return fmt.Errorf("write operation: %w", err)
	}
	return nil
}
