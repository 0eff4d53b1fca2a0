// Package chunk defines the unit of work flowing through the pipeline: a
// bounded group of consecutively ordered rows sharing one column schema.
//
// Chunks are produced by the reader, passed through the transform chain, and
// handed to the writer one at a time; nothing retains a chunk after it has
// been written, so peak memory stays proportional to the chunk size rather
// than the file size.
package chunk

import (
	"slices"

	"chunkproc/internal/records"
)

// Chunk is an ordered batch of rows with a fixed column order.
type Chunk struct {
	// Seq is the 1-based sequence number of the chunk within its run.
	Seq int

	// Columns fixes the column order for writing. Every chunk of a run
	// exposes the same columns unless a transform changes them, in which
	// case it must do so for every chunk.
	Columns []string

	// Rows holds the chunk's records in original file order.
	Rows []records.Record
}

// New returns an empty chunk with the given sequence number and schema.
func New(seq int, columns []string) *Chunk {
	return &Chunk{Seq: seq, Columns: columns}
}

// RowCount returns the number of rows in the chunk.
func (c *Chunk) RowCount() int { return len(c.Rows) }

// NullCount counts null cells (missing or empty) across all columns and rows.
func (c *Chunk) NullCount() int {
	n := 0
	for _, r := range c.Rows {
		for _, col := range c.Columns {
			if records.IsNull(r[col]) {
				n++
			}
		}
	}
	return n
}

// SameSchema reports whether the chunk's columns equal cols in name and order.
func (c *Chunk) SameSchema(cols []string) bool {
	return slices.Equal(c.Columns, cols)
}
