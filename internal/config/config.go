// Package config defines the canonical, JSON-serializable configuration for
// a chunked processing run. It is intentionally small and dependency-free so
// runs can be described on disk (or built in code) and passed through the
// program without additional glue code.
//
// Example (trimmed):
//
//	{
//	  "input_path": "data/orders.csv",
//	  "chunk_size": 1000,
//	  "transform": [
//	    { "kind": "normalize" },
//	    { "kind": "require", "options": { "fields": ["id"] } }
//	  ]
//	}
package config

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// DefaultChunkSize is the number of rows per chunk when none is configured.
const DefaultChunkSize = 1000

// Run describes one end-to-end processing run. A Run value is immutable for
// the run's duration; defaulting happens through the Resolved* accessors
// rather than by mutating the struct.
type Run struct {
	// InputPath is the delimited-text input file. Required.
	InputPath string `json:"input_path"`

	// OutputPath is the output file. When empty it defaults to
	// "{stem}_processed{ext}" beside the input.
	OutputPath string `json:"output_path,omitempty"`

	// ChunkSize is the number of rows per chunk. When zero it defaults to
	// DefaultChunkSize.
	ChunkSize int `json:"chunk_size,omitempty"`

	// Transform lists the ordered transformations applied to every chunk.
	// Each transform has a kind and an options bag whose shape is defined by
	// the transform implementation. May be empty.
	Transform []Transform `json:"transform,omitempty"`
}

// Transform defines a single transformation step. The sequence of steps
// forms the chain executed on every chunk.
type Transform struct {
	// Kind selects the transform implementation (e.g., "normalize",
	// "require", "dedup", "snake_case_columns").
	Kind string `json:"kind"`

	// Options is a free-form map interpreted by the selected transform.
	Options Options `json:"options"`
}

// UnmarshalJSON decodes a transform step and normalizes an absent "options"
// object to a non-nil, empty Options map. encoding/json only routes an
// explicit null through Options.UnmarshalJSON; the absent-field case never
// reaches it, so it is handled here.
func (t *Transform) UnmarshalJSON(b []byte) error {
	type plain Transform
	var tmp plain
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	if tmp.Options == nil {
		tmp.Options = Options{}
	}
	*t = Transform(tmp)
	return nil
}

// ResolvedOutputPath returns OutputPath, or the deterministic default
// "{stem}_processed{ext}" beside the input when unset.
func (r Run) ResolvedOutputPath() string {
	if r.OutputPath != "" {
		return r.OutputPath
	}
	ext := filepath.Ext(r.InputPath)
	stem := strings.TrimSuffix(r.InputPath, ext)
	return stem + "_processed" + ext
}

// ResolvedChunkSize returns ChunkSize, or DefaultChunkSize when unset.
func (r Run) ResolvedChunkSize() int {
	if r.ChunkSize > 0 {
		return r.ChunkSize
	}
	return DefaultChunkSize
}

// Job returns a short identifier for the run, used for metrics labeling:
// the input file name without its extension.
func (r Run) Job() string {
	base := filepath.Base(r.InputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without introducing third-party configuration libraries. It performs only
// minimal type coercion and returns provided defaults when a key is absent
// or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers are decoded as
// float64 by encoding/json, so this method accepts float64 and casts to int.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// StringSlice returns a []string for key when the value is an array of
// strings (or an array of interface values containing strings). Returns nil
// when the key is missing or the value is not an array.
func (o Options) StringSlice(key string) []string {
	if v, ok := o[key]; ok {
		switch vv := v.(type) {
		case []any:
			out := make([]string, 0, len(vv))
			for _, x := range vv {
				if s, ok := x.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return vv
		}
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler so that an explicit null
// "options" object decodes to a non-nil, empty Options map; Transform's
// unmarshaler covers the absent-field case. Together they remove the need
// to nil-check Options at call sites.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
