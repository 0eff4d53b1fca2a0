// Package csv implements chunked, streaming CSV reading for large files.
//
// A ChunkReader consumes a decoded byte stream and yields row chunks of a
// fixed size, one at a time, without whole-file buffering. The sequence is
// finite, forward-only, and non-restartable. The header row is consumed when
// the reader is constructed and fixes the column schema for every chunk of
// the run.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"chunkproc/internal/chunk"
	"chunkproc/internal/records"
)

// ChunkReader yields fixed-size row chunks from a CSV stream.
type ChunkReader struct {
	src       io.Closer
	cr        *csv.Reader
	columns   []string
	chunkSize int
	seq       int
	logger    *slog.Logger
	done      bool
}

// NewChunkReader builds a reader over rc yielding chunks of at most
// chunkSize rows. The header row is read and normalized immediately; a
// failure here means the input cannot be parsed at all and is fatal.
//
// The underlying csv.Reader is configured leniently (LazyQuotes, variable
// field counts); data rows are fitted to the header width, so ragged rows
// are padded or truncated rather than dropped.
func NewChunkReader(rc io.ReadCloser, chunkSize int, logger *slog.Logger) (*ChunkReader, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if logger == nil {
		logger = slog.Default()
	}

	cr := csv.NewReader(rc)
	cr.ReuseRecord = true
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1 // tolerant; width enforced against the header

	hdr, err := cr.Read()
	if err != nil {
		rc.Close()
		if err == io.EOF {
			return nil, fmt.Errorf("read csv header: empty input")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	return &ChunkReader{
		src:       rc,
		cr:        cr,
		columns:   normalizeHeaders(hdr),
		chunkSize: chunkSize,
		logger:    logger,
	}, nil
}

// Columns returns the column schema fixed by the header row.
func (r *ChunkReader) Columns() []string { return r.columns }

// Next returns the next chunk in file order, or io.EOF once the input is
// exhausted. Every chunk except possibly the last holds exactly chunkSize
// rows. Each produced chunk is logged with its sequence number and row
// count.
func (r *ChunkReader) Next(ctx context.Context) (*chunk.Chunk, error) {
	if r.done {
		return nil, io.EOF
	}

	c := chunk.New(r.seq+1, r.columns)
	for len(c.Rows) < r.chunkSize {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rec, err := r.cr.Read()
		if err == io.EOF {
			r.done = true
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv read: %w", err)
		}
		c.Rows = append(c.Rows, r.rowFromRecord(rec))
	}

	if len(c.Rows) == 0 {
		return nil, io.EOF
	}

	r.seq++
	r.logger.Info("chunk read", "chunk", c.Seq, "rows", c.RowCount())
	return c, nil
}

// Close releases the underlying source.
func (r *ChunkReader) Close() error { return r.src.Close() }

// rowFromRecord copies one csv record into a Record keyed by the header
// columns. The record is fitted to the header width: missing trailing cells
// and empty cells become nil, surplus cells are dropped.
func (r *ChunkReader) rowFromRecord(rec []string) records.Record {
	row := make(records.Record, len(r.columns))
	for i, col := range r.columns {
		if i >= len(rec) || rec[i] == "" {
			row[col] = nil
			continue
		}
		row[col] = rec[i]
	}
	return row
}
