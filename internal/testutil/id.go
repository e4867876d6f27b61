package testutil

// FixedIDGenerator hands out the same collection ID every time.
//
// Scenario runs use it so the journal and golden traces see a stable base
// ID. Unlike collection.FixedGenerator, which returns a list of IDs once
// each, it never runs out.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a generator for id.
// If id is empty, Generate returns "test-collection-default".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-collection-default"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed ID. Implements collection.IDGenerator.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}
