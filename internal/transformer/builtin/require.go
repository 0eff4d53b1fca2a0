package builtin

import (
	"chunkproc/internal/chunk"
	"chunkproc/internal/records"
)

// Require removes any row missing a value for one of the specified fields.
type Require struct {
	Fields []string
}

// Apply filters the chunk's rows in place, keeping only rows that have every
// required field present and non-null.
func (t Require) Apply(c *chunk.Chunk) (*chunk.Chunk, error) {
	if len(t.Fields) == 0 {
		return c, nil
	}
	out := c.Rows[:0]
	for _, rec := range c.Rows {
		ok := true
		for _, f := range t.Fields {
			if records.IsNull(rec[f]) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, rec)
		}
	}
	c.Rows = out
	return c, nil
}
