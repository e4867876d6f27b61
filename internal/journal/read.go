package journal

import (
	"context"
	"database/sql"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/roach88/lockstep/internal/collection"
)

// ReadOperations returns every entry recorded for a collection.
// Results are ordered deterministically: ORDER BY revision ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if nothing was recorded.
func (s *Store) ReadOperations(ctx context.Context, collectionID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, collection_id, revision, kind, start_index, other_index, items
		FROM operations
		WHERE collection_id = ?
		ORDER BY revision ASC, id COLLATE BINARY ASC
	`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operations: %w", err)
	}

	return entries, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e     Entry
		kind  string
		items string
	)
	if err := rows.Scan(&e.ID, &e.CollectionID, &e.Revision, &kind, &e.Index, &e.Other, &items); err != nil {
		return Entry{}, fmt.Errorf("scan operation: %w", err)
	}

	k, err := collection.ParseKind(kind)
	if err != nil {
		return Entry{}, fmt.Errorf("scan operation %s: %w", e.ID, err)
	}
	e.Kind = k

	if !jsoniter.ConfigFastest.Valid([]byte(items)) {
		return Entry{}, fmt.Errorf("scan operation %s: items are not valid JSON", e.ID)
	}
	e.Items = []byte(items)

	return e, nil
}

// ListCollections returns every recorded collection with a summary of its
// log, ordered by name then id.
func (s *Store) ListCollections(ctx context.Context) ([]Collection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name,
		       COUNT(o.id),
		       COALESCE(SUM(CASE WHEN o.kind = 'reset' THEN 1 ELSE 0 END), 0),
		       COALESCE(MAX(o.revision), 0)
		FROM collections c
		LEFT JOIN operations o ON o.collection_id = c.id
		GROUP BY c.id, c.name
		ORDER BY c.name ASC, c.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query collections: %w", err)
	}
	defer rows.Close()

	collections := []Collection{}
	for rows.Next() {
		var c Collection
		if err := rows.Scan(&c.ID, &c.Name, &c.Operations, &c.Resets, &c.LastRevision); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		collections = append(collections, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collections: %w", err)
	}

	return collections, nil
}
