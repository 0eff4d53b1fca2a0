// Package runlog builds the per-run logger. Every run writes timestamped,
// leveled lines to a log file derived from the input name and mirrors them
// to a console stream.
//
// The logger is an explicit value scoped to one run, not process-wide state:
// it is constructed at run start and must be closed on every exit path,
// including the fatal-error path.
package runlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Path derives the run log path for the given input file:
// "{stem}_processing.log" beside the input.
func Path(inputPath string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(inputPath), stem+"_processing.log")
}

// Log is a leveled logger bound to a run's log file. The embedded Logger
// carries the INFO/ERROR API; Close releases the file sink.
type Log struct {
	*slog.Logger
	f *os.File
}

// Open truncates or creates the run log beside inputPath and returns a
// logger writing to both the file and console. A nil console suppresses the
// mirror (used by tests).
func Open(inputPath string, console io.Writer) (*Log, error) {
	p := Path(inputPath)
	f, err := os.Create(p)
	if err != nil {
		return nil, fmt.Errorf("create run log %s: %w", p, err)
	}

	var sink io.Writer = f
	if console != nil {
		sink = io.MultiWriter(f, console)
	}

	h := slog.NewTextHandler(sink, &slog.HandlerOptions{Level: slog.LevelInfo})
	return &Log{Logger: slog.New(h), f: f}, nil
}

// File returns the log file path.
func (l *Log) File() string { return l.f.Name() }

// Close releases the underlying file sink.
func (l *Log) Close() error { return l.f.Close() }
