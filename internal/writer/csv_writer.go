// Package writer appends transformed chunks to the output CSV.
//
// The writer owns the single output stream for a run. The header row is
// written exactly once, fixed by the first chunk that reaches the writer;
// every chunk is flushed to the file before the next one is read, so the
// output always reflects all chunks processed so far, even if the run aborts
// midway.
package writer

import (
	"encoding/csv"
	"fmt"
	"os"

	"chunkproc/internal/chunk"
	"chunkproc/internal/records"
)

// ChunkWriter incrementally writes chunks to one output file.
type ChunkWriter struct {
	path    string
	f       *os.File
	w       *csv.Writer
	columns []string // header written this run; nil until the first chunk
}

// Create truncate-creates the output file at path. Failure to create the
// output is a fatal setup error for the run.
func Create(path string) (*ChunkWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output %s: %w", path, err)
	}
	return &ChunkWriter{path: path, f: f, w: csv.NewWriter(f)}, nil
}

// Path returns the output file path.
func (w *ChunkWriter) Path() string { return w.path }

// HeaderWritten reports whether the header row has been written this run.
func (w *ChunkWriter) HeaderWritten() bool { return w.columns != nil }

// WriteHeader writes the header row with the given columns if no header has
// been written yet, and is a no-op otherwise. It lets a run that produced no
// successful chunks still leave a header-only output file.
func (w *ChunkWriter) WriteHeader(columns []string) error {
	if w.columns != nil {
		return nil
	}
	if err := w.w.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	w.columns = append([]string(nil), columns...)
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return fmt.Errorf("flush header: %w", err)
	}
	return nil
}

// Write appends the chunk's rows to the output, writing the header first if
// none has been written yet. The first successfully written chunk fixes the
// output schema; a later chunk with a different schema is rejected so
// columns are never silently misaligned.
func (w *ChunkWriter) Write(c *chunk.Chunk) error {
	if w.columns == nil {
		if err := w.WriteHeader(c.Columns); err != nil {
			return err
		}
	} else if !c.SameSchema(w.columns) {
		return fmt.Errorf("chunk %d schema %v does not match output header %v", c.Seq, c.Columns, w.columns)
	}

	cells := make([]string, len(w.columns))
	for _, r := range c.Rows {
		for i, col := range w.columns {
			cells[i] = cellString(r[col])
		}
		if err := w.w.Write(cells); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	// Flush per chunk so every written chunk is durably appended before the
	// next one begins.
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return fmt.Errorf("flush chunk %d: %w", c.Seq, err)
	}
	return nil
}

// Close flushes pending rows and releases the output stream.
func (w *ChunkWriter) Close() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}

// cellString renders a cell for CSV output. Nulls become empty cells.
func cellString(v any) string {
	if records.IsNull(v) {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
