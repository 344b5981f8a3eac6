package view

import (
	"encoding/hex"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator hands out unique view ids ("prefix-1", "prefix-2", ...).
// Applications own their generators; there is no package-level counter.
type IDGenerator struct {
	prefix  string
	counter uint64
	mu      sync.Mutex
}

// NewIDGenerator creates a generator whose ids start with prefix.
// An empty prefix defaults to "v".
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "v"
	}
	return &IDGenerator{prefix: prefix}
}

// NewScopedIDGenerator creates a generator with a random prefix such as
// "m1a2b3c4d". Use it when several independently built trees are mounted
// in the same document, since element ids must be unique document-wide.
func NewScopedIDGenerator() *IDGenerator {
	u := uuid.New()
	return NewIDGenerator("m" + hex.EncodeToString(u[:4]))
}

// Prefix returns the id prefix.
func (g *IDGenerator) Prefix() string {
	return g.prefix
}

// Next returns the next id.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return g.prefix + "-" + strconv.FormatUint(g.counter, 10)
}

// Reset resets the counter to 0.
func (g *IDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter = 0
}

// Current returns the current counter value without incrementing.
func (g *IDGenerator) Current() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counter
}
