package journal

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/lockstep/internal/collection"
)

// createTestStore opens a fresh journal in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

type item struct {
	Name string
	Qty  int
}

func label(it item) string {
	return fmt.Sprintf("%s x%d", strings.ToUpper(it.Name), it.Qty)
}

func encodeString(s string) (any, error) { return s, nil }

func decodeString(raw json.RawMessage) (string, error) {
	var s string
	err := json.Unmarshal(raw, &s)
	return s, err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestBase(id string, initial ...item) *collection.Base[item, string] {
	return collection.NewFrom(label, initial,
		collection.WithLogger(quietLogger()),
		collection.WithIDGenerator(collection.NewFixedGenerator(id)),
	)
}
