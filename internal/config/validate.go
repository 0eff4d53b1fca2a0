// This file adds a lightweight linter/validator for Run values. It performs
// static checks over a decoded Run and returns a list of issues (errors and
// warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Run.
//
// Path is a dotted path into the config (e.g. "chunk_size",
// "transform[1].kind"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error in contexts that expect one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// knownTransformKinds mirrors the kinds registered by the builtin transform
// package. Kept as a literal here so config stays dependency-free.
var knownTransformKinds = map[string]bool{
	"normalize":          true,
	"require":            true,
	"dedup":              true,
	"snake_case_columns": true,
}

// Validate performs static validation of a Run. It does not mutate the Run;
// it returns a slice of Issue values. Callers decide whether warnings are
// fatal.
func Validate(r Run) []Issue {
	var issues []Issue

	if strings.TrimSpace(r.InputPath) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "input_path",
			Message:  "input_path must not be empty",
		})
	}

	if r.ChunkSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "chunk_size",
			Message:  fmt.Sprintf("chunk_size must be positive (got %d); omit it to use the default %d", r.ChunkSize, DefaultChunkSize),
		})
	}

	if r.InputPath != "" && r.ResolvedOutputPath() == r.InputPath {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output_path",
			Message:  "output_path must differ from input_path; the input would be truncated",
		})
	}

	for i, tr := range r.Transform {
		if strings.TrimSpace(tr.Kind) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("transform[%d].kind", i),
				Message:  "kind must not be empty",
			})
			continue
		}
		if !knownTransformKinds[tr.Kind] {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("transform[%d].kind", i),
				Message:  fmt.Sprintf("unknown transform kind %q; the run will fail at build time", tr.Kind),
			})
		}
	}

	return issues
}
