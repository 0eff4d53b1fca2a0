// Package transformer defines the chunk-to-chunk transformation contract and
// the ordered chain executed on every chunk.
package transformer

import (
	"fmt"

	"chunkproc/internal/chunk"
)

// Transformer maps one chunk to another. Implementations may mutate the
// input in place and return it, or build a derived chunk; either way the
// result must keep a consistent schema from chunk to chunk within a run.
type Transformer interface {
	Apply(c *chunk.Chunk) (*chunk.Chunk, error)
}

// Func adapts a plain function to the Transformer interface.
type Func func(c *chunk.Chunk) (*chunk.Chunk, error)

// Apply calls f.
func (f Func) Apply(c *chunk.Chunk) (*chunk.Chunk, error) { return f(c) }

// Chain is an ordered list of transformers. Output of step i is input to
// step i+1. An empty Chain is the identity.
type Chain []Transformer

// Apply runs the chain in order. The first error aborts the chain and is
// returned wrapped with the failing step's position; the orchestrator treats
// it as a per-chunk failure.
func (ch Chain) Apply(c *chunk.Chunk) (*chunk.Chunk, error) {
	out := c
	for i, t := range ch {
		var err error
		out, err = t.Apply(out)
		if err != nil {
			return nil, fmt.Errorf("transform step %d: %w", i, err)
		}
	}
	return out, nil
}
