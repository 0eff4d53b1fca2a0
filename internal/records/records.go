// Package records defines the row representation shared by the reader,
// transformer, and writer stages.
package records

// Record maps a column name to a cell value. Cells read from a CSV are
// strings; a nil value marks a cell that was missing or empty in the source.
type Record map[string]any

// IsNull reports whether v counts as a null cell: nil or the empty string.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}

// Clone returns a shallow copy of r. Cell values are shared.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
