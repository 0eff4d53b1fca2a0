// Package processor implements the chunked file-processing core: a
// format-agnostic contract for "read a file as a lazy sequence of chunks,
// transform each chunk, write each chunk incrementally, aggregate run
// statistics", plus its CSV realization.
//
// The run is strictly sequential: one chunk is read, transformed, written,
// and counted before the next is pulled. A failure inside one chunk is
// soft — logged, the chunk dropped, the run continues — while setup
// failures (input unreadable, output unwritable) abort the run.
package processor

import (
	"context"
	"fmt"
	"time"

	"chunkproc/internal/chunk"
)

// ChunkSeq is a lazy, finite, forward-only sequence of chunks. Next returns
// io.EOF once the sequence is exhausted; the sequence cannot be restarted.
type ChunkSeq interface {
	// Next returns the next chunk in file order, or io.EOF at the end.
	Next(ctx context.Context) (*chunk.Chunk, error)
	// Columns returns the column schema fixed by the source header.
	Columns() []string
	// Close releases the underlying source.
	Close() error
}

// ChunkProcessor is the format-agnostic processing contract: one concrete
// type per supported input format. The orchestration in Process depends
// only on this interface, so further formats can be added without touching
// the run logic.
type ChunkProcessor interface {
	// ReadChunks opens the input and returns its lazy chunk sequence.
	ReadChunks(ctx context.Context) (ChunkSeq, error)
	// Process executes one end-to-end run.
	Process(ctx context.Context) error
}

// Stats accumulates per-run totals. Counters are monotonically
// non-decreasing during a run and exactly equal the sum of per-chunk
// quantities of every successfully processed chunk; failed chunks count
// toward ChunksAttempted only.
type Stats struct {
	ChunksAttempted int
	ChunksSucceeded int
	TotalRows       int
	TotalNulls      int
	Start           time.Time
}

// ChunkError marks a recoverable failure scoped to a single chunk. The
// orchestrator catches exactly this class at the per-chunk boundary; any
// other error aborts the run.
type ChunkError struct {
	Seq int
	Err error
}

// Error implements the error interface.
func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d: %v", e.Seq, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *ChunkError) Unwrap() error { return e.Err }
