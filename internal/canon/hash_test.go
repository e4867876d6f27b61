package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_Deterministic(t *testing.T) {
	v := map[string]any{"kind": "insert", "revision": int64(1)}

	h1, err := Hash(DomainOperation, v)
	require.NoError(t, err)
	h2, err := Hash(DomainOperation, map[string]any{"revision": int64(1), "kind": "insert"})
	require.NoError(t, err)

	assert.Equal(t, h1, h2, "key order must not matter")
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestHash_DomainSeparation(t *testing.T) {
	v := map[string]any{"a": 1}
	assert.NotEqual(t, MustHash(DomainOperation, v), MustHash(DomainTrace, v))
}

func TestHash_ChangesWithInput(t *testing.T) {
	assert.NotEqual(t,
		MustHash(DomainOperation, map[string]any{"revision": 1}),
		MustHash(DomainOperation, map[string]any{"revision": 2}))
}

func TestHash_Error(t *testing.T) {
	_, err := Hash(DomainOperation, 1.5)
	assert.Error(t, err)
	assert.Panics(t, func() { MustHash(DomainOperation, nil) })
}
