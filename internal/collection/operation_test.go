package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindInsert, "insert"},
		{KindReplace, "replace"},
		{KindSwap, "swap"},
		{KindReset, "reset"},
		{Kind(42), "kind(42)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindInsert, KindReplace, KindSwap, KindReset} {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseKind("remove")
	assert.Error(t, err)
}

func TestOperation_Kinds(t *testing.T) {
	ops := []Operation[string]{
		Insert[string]{},
		Replace[string]{},
		Swap{},
		Reset{},
	}
	want := []Kind{KindInsert, KindReplace, KindSwap, KindReset}
	for i, op := range ops {
		assert.Equal(t, want[i], op.Kind())
	}
}

func TestApplyTo(t *testing.T) {
	tests := []struct {
		name string
		seq  []string
		op   Operation[string]
		want []string
	}{
		{
			name: "insert at end",
			seq:  []string{"a"},
			op:   Insert[string]{Index: 1, Items: []string{"b", "c"}},
			want: []string{"a", "b", "c"},
		},
		{
			name: "insert at front",
			seq:  []string{"c"},
			op:   Insert[string]{Index: 0, Items: []string{"a", "b"}},
			want: []string{"a", "b", "c"},
		},
		{
			name: "insert into empty",
			seq:  nil,
			op:   Insert[string]{Index: 0, Items: []string{"a"}},
			want: []string{"a"},
		},
		{
			name: "replace single",
			seq:  []string{"a", "b", "c"},
			op:   Replace[string]{Index: 1, Items: []string{"B"}},
			want: []string{"a", "B", "c"},
		},
		{
			name: "replace run",
			seq:  []string{"a", "b", "c"},
			op:   Replace[string]{Index: 1, Items: []string{"B", "C"}},
			want: []string{"a", "B", "C"},
		},
		{
			name: "swap",
			seq:  []string{"a", "b", "c"},
			op:   Swap{A: 0, B: 2},
			want: []string{"c", "b", "a"},
		},
		{
			name: "swap self",
			seq:  []string{"a", "b"},
			op:   Swap{A: 1, B: 1},
			want: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyTo(tt.seq, tt.op)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyTo_OutOfRange(t *testing.T) {
	seq := []string{"a", "b"}

	tests := []struct {
		name string
		op   Operation[string]
	}{
		{"insert past end", Insert[string]{Index: 3, Items: []string{"x"}}},
		{"insert negative", Insert[string]{Index: -1, Items: []string{"x"}}},
		{"replace past end", Replace[string]{Index: 2, Items: []string{"x"}}},
		{"replace run overflows", Replace[string]{Index: 1, Items: []string{"x", "y"}}},
		{"swap first invalid", Swap{A: 2, B: 0}},
		{"swap second invalid", Swap{A: 0, B: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyTo(seq, tt.op)
			assert.True(t, IsIndexOutOfRange(err))
			assert.Equal(t, []string{"a", "b"}, got, "failed replay must leave the sequence untouched")
		})
	}
}

func TestApplyTo_ResetRequiresRebuild(t *testing.T) {
	seq := []string{"a"}

	got, err := ApplyTo[string](seq, Reset{})
	assert.ErrorIs(t, err, ErrRebuildRequired)
	assert.Equal(t, []string{"a"}, got)
}

func TestError_Message(t *testing.T) {
	err := indexError("get", 3, 2)
	assert.Equal(t, "INDEX_OUT_OF_RANGE: get: index 3, length 2", err.Error())

	inv := invariantError("insert", "derived length 1, base length 2")
	assert.Equal(t, "INVARIANT_VIOLATION: insert: derived length 1, base length 2", inv.Error())
	assert.True(t, IsInvariantViolation(inv))
	assert.False(t, IsInvariantViolation("not an error"))
}
