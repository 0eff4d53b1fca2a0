// Package builtin contains reusable chunk transformers and the factory that
// builds a transform chain from run configuration.
package builtin

import (
	"strings"

	"chunkproc/internal/chunk"
)

// Normalize cleans string cells in place: trims edge whitespace and replaces
// non-breaking spaces with plain spaces. Cells that become empty are set to
// nil so they count as nulls downstream.
type Normalize struct{}

// Apply mutates the chunk in place and returns it.
func (Normalize) Apply(c *chunk.Chunk) (*chunk.Chunk, error) {
	for _, r := range c.Rows {
		for k, v := range r {
			s, ok := v.(string)
			if !ok {
				continue
			}
			s = strings.TrimSpace(strings.ReplaceAll(s, " ", " "))
			if s == "" {
				r[k] = nil
			} else {
				r[k] = s
			}
		}
	}
	return c, nil
}
