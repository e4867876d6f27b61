package journal

import (
	"fmt"

	"github.com/roach88/lockstep/internal/canon"
	"github.com/roach88/lockstep/internal/collection"
)

// Collection is a recorded base collection.
type Collection struct {
	ID   string
	Name string

	// Summary fields, filled by ListCollections.
	Operations   int
	Resets       int
	LastRevision int64
}

// Entry is one recorded operation.
type Entry struct {
	ID           string
	CollectionID string
	Revision     int64
	Kind         collection.Kind
	Index        int    // Insert/Replace start index, Swap A
	Other        int    // Swap B
	Items        []byte // canonical JSON array of encoded wrapper items
}

// emptyItems is the payload of Swap and Reset entries.
var emptyItems = []byte("[]")

// EntryID computes the content-addressed ID of an entry.
// The ID is stable across re-recordings of the same operation.
func EntryID(collectionID string, revision int64, kind collection.Kind, index, other int, items []byte) (string, error) {
	obj := map[string]any{
		"collection_id": collectionID,
		"revision":      revision,
		"kind":          kind.String(),
		"index":         index,
		"other":         other,
		"items":         canon.RawMessage(items),
	}

	id, err := canon.Hash(canon.DomainOperation, obj)
	if err != nil {
		return "", fmt.Errorf("EntryID: %w", err)
	}
	return id, nil
}

// Encoder converts a wrapper item into a value canon.Marshal accepts.
type Encoder[W any] func(W) (any, error)

// NewEntry builds an entry for one notification, encoding Insert and Replace
// payloads with encode.
func NewEntry[W any](collectionID string, revision int64, op collection.Operation[W], encode Encoder[W]) (Entry, error) {
	e := Entry{
		CollectionID: collectionID,
		Revision:     revision,
		Kind:         op.Kind(),
		Items:        emptyItems,
	}

	var payload []W
	switch op := op.(type) {
	case collection.Insert[W]:
		e.Index, payload = op.Index, op.Items
	case collection.Replace[W]:
		e.Index, payload = op.Index, op.Items
	case collection.Swap:
		e.Index, e.Other = op.A, op.B
	case collection.Reset:
	default:
		return Entry{}, fmt.Errorf("new entry: unknown operation %T", op)
	}

	if payload != nil {
		values := make([]any, len(payload))
		for i, w := range payload {
			v, err := encode(w)
			if err != nil {
				return Entry{}, fmt.Errorf("new entry: encode item %d: %w", i, err)
			}
			values[i] = v
		}
		items, err := canon.Marshal(values)
		if err != nil {
			return Entry{}, fmt.Errorf("new entry: %w", err)
		}
		e.Items = items
	}

	id, err := EntryID(e.CollectionID, e.Revision, e.Kind, e.Index, e.Other, e.Items)
	if err != nil {
		return Entry{}, fmt.Errorf("new entry: %w", err)
	}
	e.ID = id
	return e, nil
}
