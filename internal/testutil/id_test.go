package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/lockstep/internal/collection"
)

func TestFixedIDGenerator_SameIDEveryTime(t *testing.T) {
	gen := NewFixedIDGenerator("orders")

	assert.Equal(t, "orders", gen.Generate())
	assert.Equal(t, "orders", gen.Generate())
}

func TestFixedIDGenerator_Default(t *testing.T) {
	assert.Equal(t, "test-collection-default", NewFixedIDGenerator("").Generate())
}

func TestFixedIDGenerator_ImplementsIDGenerator(t *testing.T) {
	var gen collection.IDGenerator = NewFixedIDGenerator("orders")

	b := collection.New(func(s string) int { return len(s) }, collection.WithIDGenerator(gen))
	assert.Equal(t, "orders", b.ID())
}
