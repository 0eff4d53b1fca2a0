package processor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"chunkproc/internal/chunk"
	"chunkproc/internal/config"
	"chunkproc/internal/datasource/file"
	"chunkproc/internal/encdetect"
	"chunkproc/internal/metrics"
	csvparser "chunkproc/internal/parser/csv"
	"chunkproc/internal/runlog"
	"chunkproc/internal/transformer"
	"chunkproc/internal/writer"
)

// CSV processes a delimited text file chunk by chunk. It is the one
// concrete ChunkProcessor; construct it with NewCSV and run it once
// with Process. A CSV value is not safe for concurrent use and should
// not be reused across runs.
type CSV struct {
	// Console receives a mirror of the run log in addition to the log
	// file. Defaults to os.Stderr when nil.
	Console io.Writer

	cfg        config.Run
	transforms transformer.Chain
	log        *runlog.Log
	stats      Stats
}

var _ ChunkProcessor = (*CSV)(nil)

// NewCSV returns a processor for cfg applying transforms in order.
func NewCSV(cfg config.Run, transforms transformer.Chain) *CSV {
	return &CSV{cfg: cfg, transforms: transforms}
}

// Stats returns the totals accumulated so far. Valid during and after
// Process.
func (p *CSV) Stats() Stats { return p.stats }

func (p *CSV) logger() *slog.Logger {
	if p.log != nil {
		return p.log.Logger
	}
	return slog.Default()
}

// readCloser pairs a decoding reader with the file it wraps so closing
// the sequence closes the file.
type readCloser struct {
	io.Reader
	io.Closer
}

// ReadChunks detects the input encoding, opens the file, and returns its
// lazy chunk sequence. Errors here are setup errors: the caller should
// abort the run.
func (p *CSV) ReadChunks(ctx context.Context) (ChunkSeq, error) {
	label, confidence, err := encdetect.Detect(p.cfg.InputPath, encdetect.DefaultSampleSize)
	if err != nil {
		return nil, err
	}
	p.logger().Info("encoding detected", "encoding", label, "confidence", confidence)

	rc, err := file.NewLocal(p.cfg.InputPath).Open(ctx)
	if err != nil {
		return nil, err
	}
	dec := encdetect.NewReader(rc, label)
	r, err := csvparser.NewChunkReader(&readCloser{Reader: dec, Closer: rc}, p.cfg.ResolvedChunkSize(), p.logger())
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Process runs the whole pipeline: open the run log, create the output,
// then read-transform-write one chunk at a time. A chunk that fails to
// transform or write is logged and dropped; the run continues with the
// next chunk. Returns non-nil only for setup failures.
func (p *CSV) Process(ctx context.Context) error {
	console := p.Console
	if console == nil {
		console = os.Stderr
	}
	lg, err := runlog.Open(p.cfg.InputPath, console)
	if err != nil {
		return err
	}
	p.log = lg
	defer func() {
		p.log = nil
		lg.Close()
	}()

	p.stats = Stats{Start: time.Now()}
	job := p.cfg.Job()
	outPath := p.cfg.ResolvedOutputPath()
	lg.Info("processing started",
		"input", p.cfg.InputPath,
		"output", outPath,
		"chunk_size", p.cfg.ResolvedChunkSize(),
	)

	out, err := writer.Create(outPath)
	if err != nil {
		lg.Error("run aborted", "error", err)
		return err
	}
	defer out.Close()

	seq, err := p.ReadChunks(ctx)
	if err != nil {
		lg.Error("run aborted", "error", err)
		return err
	}
	defer seq.Close()

	for {
		c, err := seq.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			lg.Error("run aborted", "error", err)
			return err
		}

		p.stats.ChunksAttempted++
		start := time.Now()
		rows, nulls, perr := p.processChunk(c, out)
		elapsed := time.Since(start)
		metrics.RecordChunk(job, perr, elapsed)
		if perr != nil {
			lg.Error("chunk failed", "chunk", c.Seq, "error", perr)
			continue
		}
		p.stats.ChunksSucceeded++
		p.stats.TotalRows += rows
		p.stats.TotalNulls += nulls
		metrics.RecordRows(job, "processed", int64(rows))
		metrics.RecordRows(job, "nulls", int64(nulls))
		lg.Info("chunk processed", "chunk", c.Seq, "rows", rows, "nulls", nulls, "elapsed", elapsed)
	}

	// A run with zero successful chunks still produces a valid output
	// file: header only, from the source schema.
	if err := out.WriteHeader(seq.Columns()); err != nil {
		lg.Error("run aborted", "error", err)
		return err
	}

	lg.Info("processing complete",
		"output", out.Path(),
		"chunks_attempted", p.stats.ChunksAttempted,
		"chunks_succeeded", p.stats.ChunksSucceeded,
		"total_rows", p.stats.TotalRows,
		"total_nulls", p.stats.TotalNulls,
		"elapsed", time.Since(p.stats.Start),
	)
	return nil
}

// processChunk transforms and writes one chunk, returning its row and
// null counts. Any failure comes back as a *ChunkError so the caller can
// drop the chunk and keep going.
func (p *CSV) processChunk(c *chunk.Chunk, out *writer.ChunkWriter) (rows, nulls int, err error) {
	t, err := p.transforms.Apply(c)
	if err != nil {
		return 0, 0, &ChunkError{Seq: c.Seq, Err: err}
	}
	if err := out.Write(t); err != nil {
		return 0, 0, &ChunkError{Seq: c.Seq, Err: err}
	}
	return t.RowCount(), t.NullCount(), nil
}
