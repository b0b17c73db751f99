package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDGenerator generates predictable record ids for tests.
//
// Ids are "<prefix>-1", "<prefix>-2", ... so an archive prepared with the same
// generator always receives the same ids, which keeps golden files stable.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialIDGenerator struct {
	mu     sync.Mutex
	prefix string
	seq    int
}

// NewSequentialIDGenerator creates a generator with the given prefix.
// If prefix is empty, "id" is used.
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &SequentialIDGenerator{prefix: prefix}
}

// Generate returns the next id.
//
// Implements history.IDGenerator.
func (g *SequentialIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%d", g.prefix, g.seq)
}

// Reset restarts the sequence. The next call to Generate returns "<prefix>-1".
func (g *SequentialIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
