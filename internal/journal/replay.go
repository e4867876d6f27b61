package journal

import (
	"encoding/json"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/roach88/lockstep/internal/collection"
)

// Decoder converts one encoded wrapper item back into a wrapper.
type Decoder[W any] func(raw json.RawMessage) (W, error)

// Replay rebuilds a wrapper sequence from entries in revision order.
//
// Insert, Replace and Swap are applied with collection.ApplyTo. Reset
// truncates: a Clear always leaves the base empty.
func Replay[W any](entries []Entry, decode Decoder[W]) ([]W, error) {
	seq := []W{}

	for _, e := range entries {
		op, err := decodeOperation(e, decode)
		if err != nil {
			return nil, err
		}

		if _, ok := op.(collection.Reset); ok {
			seq = seq[:0]
			continue
		}

		seq, err = collection.ApplyTo(seq, op)
		if err != nil {
			return nil, fmt.Errorf("replay revision %d: %w", e.Revision, err)
		}
	}

	return seq, nil
}

func decodeOperation[W any](e Entry, decode Decoder[W]) (collection.Operation[W], error) {
	switch e.Kind {
	case collection.KindSwap:
		return collection.Swap{A: e.Index, B: e.Other}, nil
	case collection.KindReset:
		return collection.Reset{}, nil
	case collection.KindInsert, collection.KindReplace:
	default:
		return nil, fmt.Errorf("replay revision %d: unknown kind %s", e.Revision, e.Kind)
	}

	var raws []json.RawMessage
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(e.Items, &raws); err != nil {
		return nil, fmt.Errorf("replay revision %d: decode items: %w", e.Revision, err)
	}

	items := make([]W, len(raws))
	for i, raw := range raws {
		w, err := decode(raw)
		if err != nil {
			return nil, fmt.Errorf("replay revision %d: decode item %d: %w", e.Revision, i, err)
		}
		items[i] = w
	}

	if e.Kind == collection.KindInsert {
		return collection.Insert[W]{Index: e.Index, Items: items}, nil
	}
	return collection.Replace[W]{Index: e.Index, Items: items}, nil
}
