package builtin

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"

	"chunkproc/internal/chunk"
	"chunkproc/internal/records"
)

// DeDup collapses duplicate rows within a chunk by a configured key and
// keeps one winner per key:
//
//   - "keep-first" : keep the earliest occurrence in the chunk
//   - "keep-last"  : keep the latest occurrence (default)
//
// A row's key is the xxh3 hash of its key fields joined with an unlikely
// separator (nil cells hash as "\x00"). Rows missing a key field entirely
// pass through untouched. De-duplication is intra-chunk only: rows never
// cross chunk boundaries, so a duplicate split across two chunks survives.
// Run DeDup after Normalize so values compare consistently.
type DeDup struct {
	// Keys are the field names that form the business key.
	Keys []string

	// Policy selects the winner among duplicates: "keep-first" or
	// "keep-last" (default).
	Policy string
}

// Apply returns the chunk with only the winning row per key, in original
// row order.
func (d DeDup) Apply(c *chunk.Chunk) (*chunk.Chunk, error) {
	if len(c.Rows) == 0 || len(d.Keys) == 0 {
		return c, nil
	}

	policy := strings.ToLower(strings.TrimSpace(d.Policy))
	if policy == "" {
		policy = "keep-last"
	}
	if policy != "keep-first" && policy != "keep-last" {
		return nil, fmt.Errorf("dedup: unknown policy %q", d.Policy)
	}

	// winners[key] = index of the winning row in c.Rows.
	winners := make(map[uint64]int, len(c.Rows))
	keyed := make([]bool, len(c.Rows))

	for i, r := range c.Rows {
		key, ok := d.keyOf(r)
		if !ok {
			continue
		}
		keyed[i] = true
		if _, exists := winners[key]; exists && policy == "keep-first" {
			continue
		}
		winners[key] = i
	}

	keep := make(map[int]bool, len(winners))
	for _, idx := range winners {
		keep[idx] = true
	}

	out := c.Rows[:0]
	for i, r := range c.Rows {
		if !keyed[i] || keep[i] {
			out = append(out, r)
		}
	}
	c.Rows = out
	return c, nil
}

// keyOf hashes the key fields of r. ok is false when a key field is absent
// from the record, which excludes the row from de-duplication.
func (d DeDup) keyOf(r records.Record) (uint64, bool) {
	var b strings.Builder
	for _, k := range d.Keys {
		v, ok := r[k]
		if !ok {
			return 0, false
		}
		if b.Len() > 0 {
			b.WriteByte('\x1f') // unlikely separator
		}
		switch t := v.(type) {
		case nil:
			b.WriteByte('\x00')
		case string:
			b.WriteString(t)
		default:
			b.WriteString(fmt.Sprint(t))
		}
	}
	return xxh3.HashString(b.String()), true
}
