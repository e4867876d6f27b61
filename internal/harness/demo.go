package harness

import (
	"encoding/json"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Item is the model type scenarios operate on.
type Item struct {
	Name string `yaml:"name" json:"name"`
	Qty  int    `yaml:"qty" json:"qty"`
}

// Row is the wrapper every derived collection holds.
type Row struct {
	Label string `json:"label"`
	Qty   int    `json:"qty"`
}

// ProjectRow converts an item into its row: the upper-cased name followed by
// the quantity, e.g. "APPLE x3".
func ProjectRow(it Item) Row {
	return Row{
		Label: fmt.Sprintf("%s x%d", strings.ToUpper(it.Name), it.Qty),
		Qty:   it.Qty,
	}
}

// EncodeRow turns a row into a canonical JSON value for the journal.
func EncodeRow(r Row) (any, error) {
	return map[string]any{
		"label": r.Label,
		"qty":   r.Qty,
	}, nil
}

// DecodeRow is the inverse of EncodeRow.
func DecodeRow(raw json.RawMessage) (Row, error) {
	var r Row
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &r); err != nil {
		return Row{}, fmt.Errorf("decode row: %w", err)
	}
	return r, nil
}

// Labels returns the label of every row.
func Labels(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Label
	}
	return out
}
