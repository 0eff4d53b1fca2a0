package csv

import (
	"fmt"
	"strings"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// normalizeHeaders produces the run's column schema from the raw header row.
// Cells are trimmed, a UTF-8 BOM is removed from the first cell, empty names
// are synthesized as "col_N", and duplicate names are disambiguated with a
// numeric suffix so no two columns share a map key.
func normalizeHeaders(h []string) []string {
	res := make([]string, len(h))
	seen := make(map[string]int, len(h))
	for i, col := range h {
		c := col
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		c = strings.TrimSpace(c)
		if c == "" {
			c = fmt.Sprintf("col_%d", i)
		}
		if n := seen[c]; n > 0 {
			seen[c] = n + 1
			c = fmt.Sprintf("%s_%d", c, n+1)
		}
		seen[c]++
		res[i] = c
	}
	return res
}
