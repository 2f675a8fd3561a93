// Package document holds the flat per-record output of projection.
package document

import "sort"

// Document maps dotted (and possibly locale-suffixed) field paths to values.
// Values are scalars; a one-to-many relation aggregates its members' values
// into one space-joined string per path. A Document is created fresh per
// entity and has no identity beyond that call.
type Document map[string]any

// Keys returns the field paths in sorted order (for deterministic output in
// logs and tests; consumers index by path).
func (d Document) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
