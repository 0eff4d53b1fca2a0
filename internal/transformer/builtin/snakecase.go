package builtin

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"chunkproc/internal/chunk"
	"chunkproc/internal/records"
)

// SnakeCaseColumns renames every column to a lowercase ASCII identifier
// (accents folded, spaces/dashes/dots to underscores). The rename is
// deterministic, so it produces the same schema for every chunk of a run.
type SnakeCaseColumns struct{}

// Apply rewrites the chunk's column names and re-keys its rows accordingly.
// Distinct source columns that fold to the same identifier are kept apart
// with a numeric suffix, so no column is lost to a shared map key.
func (SnakeCaseColumns) Apply(c *chunk.Chunk) (*chunk.Chunk, error) {
	renamed := make([]string, len(c.Columns))
	seen := make(map[string]int, len(c.Columns))
	for i, col := range c.Columns {
		name := snakeCaseName(col)
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		}
		seen[name]++
		renamed[i] = name
	}

	for i, r := range c.Rows {
		out := make(records.Record, len(renamed))
		for j, col := range c.Columns {
			out[renamed[j]] = r[col]
		}
		c.Rows[i] = out
	}
	c.Columns = renamed
	return c, nil
}

// snakeCaseName converts arbitrary header text into a lowercase ASCII
// identifier:
//  1. lowercase
//  2. strip accents (NFD, remove Mn, NFC)
//  3. keep [a-z0-9_]; convert space/dash/dot to underscore; drop others
//  4. fallback to "col" if empty
func snakeCaseName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	prevUnderscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.':
			if !prevUnderscore {
				b.WriteRune('_')
				prevUnderscore = true
			}
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		return "col"
	}
	return name
}
