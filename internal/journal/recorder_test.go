package journal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lockstep/internal/collection"
)

func TestRecord_ReplayReproducesDerived(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	base := newTestBase("orders")
	derived := collection.Attach(base)

	rec, err := Record(ctx, s, base, "orders", encodeString, WithRecorderLogger(quietLogger()))
	require.NoError(t, err)

	base.Append(item{"apple", 1})
	base.AppendRange([]item{{"banana", 2}, {"cherry", 3}})
	require.NoError(t, base.Swap(0, 2))
	require.NoError(t, base.Set(1, item{"damson", 4}))
	base.Clear()
	base.AppendRange([]item{{"elder", 5}, {"fig", 6}})
	require.NoError(t, base.Swap(0, 1))

	require.NoError(t, rec.Err())
	assert.Equal(t, 7, rec.Written())

	entries, err := s.ReadOperations(ctx, rec.CollectionID())
	require.NoError(t, err)
	require.Len(t, entries, 7)

	replayed, err := Replay(entries, decodeString)
	require.NoError(t, err)
	assert.Equal(t, derived.Items(), replayed)
}

func TestRecord_SnapshotsExistingContents(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	base := newTestBase("orders", item{"apple", 1}, item{"banana", 2})
	rec, err := Record(ctx, s, base, "orders", encodeString, WithRecorderLogger(quietLogger()))
	require.NoError(t, err)

	base.Append(item{"cherry", 3})

	entries, err := s.ReadOperations(ctx, "orders")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(0), entries[0].Revision)
	assert.Equal(t, `["APPLE x1","BANANA x2"]`, string(entries[0].Items))

	replayed, err := Replay(entries, decodeString)
	require.NoError(t, err)
	assert.Equal(t, []string{"APPLE x1", "BANANA x2", "CHERRY x3"}, replayed)
	assert.Equal(t, 2, rec.Written())
}

func TestRecord_EmptyBaseWritesNoSnapshot(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	base := newTestBase("orders")
	_, err := Record(ctx, s, base, "orders", encodeString, WithRecorderLogger(quietLogger()))
	require.NoError(t, err)

	entries, err := s.ReadOperations(ctx, "orders")
	require.NoError(t, err)
	assert.Empty(t, entries)

	list, err := s.ListCollections(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "orders", list[0].Name)
}

func TestRecord_Stop(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	base := newTestBase("orders")
	rec, err := Record(ctx, s, base, "orders", encodeString, WithRecorderLogger(quietLogger()))
	require.NoError(t, err)

	base.Append(item{"apple", 1})
	rec.Stop()
	rec.Stop()
	base.Append(item{"banana", 2})

	assert.Equal(t, 1, rec.Written())
}

func TestRecord_WriteFailureIsKept(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	failing := func(w string) (any, error) {
		if w == "BANANA x2" {
			return nil, boom
		}
		return w, nil
	}

	base := newTestBase("orders")
	rec, err := Record(ctx, s, base, "orders", failing, WithRecorderLogger(quietLogger()))
	require.NoError(t, err)

	base.Append(item{"apple", 1})
	base.Append(item{"banana", 2})
	base.Append(item{"cherry", 3})

	assert.Equal(t, 3, base.Len(), "the base is unaffected by journal failures")
	assert.ErrorIs(t, rec.Err(), boom)
	assert.Equal(t, 2, rec.Written())
}

func TestRecord_DivergentRerunIsReported(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first := newTestBase("orders")
	rec, err := Record(ctx, s, first, "orders", encodeString, WithRecorderLogger(quietLogger()))
	require.NoError(t, err)
	first.Append(item{"apple", 1})
	require.NoError(t, rec.Err())
	rec.Stop()

	second := newTestBase("orders")
	rec, err = Record(ctx, s, second, "orders", encodeString, WithRecorderLogger(quietLogger()))
	require.NoError(t, err)
	second.Append(item{"banana", 2})

	assert.ErrorIs(t, rec.Err(), ErrRevisionConflict)
	assert.Equal(t, 0, rec.Written())

	entries, err := s.ReadOperations(ctx, "orders")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, `["APPLE x1"]`, string(entries[0].Items))
}

func TestRecord_SnapshotFailure(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	failing := func(string) (any, error) { return nil, errors.New("boom") }

	base := newTestBase("orders", item{"apple", 1})
	_, err := Record(ctx, s, base, "orders", failing, WithRecorderLogger(quietLogger()))
	assert.ErrorContains(t, err, "snapshot")

	base.Append(item{"banana", 2})
	entries, err := s.ReadOperations(ctx, "orders")
	require.NoError(t, err)
	assert.Empty(t, entries, "a failed recorder must not stay subscribed")
}
