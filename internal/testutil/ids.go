// Package testutil provides deterministic helpers for tests.
package testutil

import (
	"fmt"
	"sync"
)

// FixedID returns the same run ID every time.
//
// Golden snapshots and stored runs stay byte-identical across executions
// when every run shares one ID.
type FixedID struct {
	id string
}

// NewFixedID creates a fixed ID generator. An empty id defaults to
// "test-run-default".
func NewFixedID(id string) *FixedID {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedID{id: id}
}

// Generate returns the fixed ID.
func (g *FixedID) Generate() string {
	return g.id
}

// SequentialIDs hands out prefix-0001, prefix-0002, ... and is safe for
// concurrent use.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	seq    int
}

// NewSequentialIDs creates a generator whose first ID ends in 0001.
func NewSequentialIDs(prefix string) *SequentialIDs {
	return &SequentialIDs{prefix: prefix}
}

// Generate returns the next ID.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%04d", g.prefix, g.seq)
}

// Reset restarts the sequence so the next ID ends in 0001.
func (g *SequentialIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
