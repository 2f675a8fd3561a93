// Package translate decides which field paths carry per-locale translations
// and decodes localized attribute payloads.
package translate

import (
	"encoding/json"

	"github.com/kailas-cloud/esdex/internal/domain/fieldtree"
)

// Resolver answers translatability for fully-qualified field paths against a
// translatable tree. The tree walk is the single source of truth for any
// relation depth, including zero.
type Resolver struct {
	tree *fieldtree.Tree
}

// NewResolver creates a resolver. A nil tree means nothing is translatable.
func NewResolver(tree *fieldtree.Tree) *Resolver {
	return &Resolver{tree: tree}
}

// IsTranslatable reports whether the dotted path names a translatable field.
// Paths whose intermediate segments don't match a relation in the tree are
// simply not translatable, never an error.
func (r *Resolver) IsTranslatable(path string) bool {
	return r.tree.Contains(path)
}

// DecodeLocalized attempts to read an attribute value as a locale→text
// mapping. Accepted inputs are a JSON object payload (string or []byte) and
// an already-decoded map. ok is false when the value is anything else — the
// caller then falls back to the raw value.
func DecodeLocalized(raw any) (map[string]string, bool) {
	switch v := raw.(type) {
	case string:
		return decodeJSON([]byte(v))
	case []byte:
		return decodeJSON(v)
	case map[string]string:
		return v, true
	case map[string]any:
		return fromAnyMap(v)
	default:
		return nil, false
	}
}

func decodeJSON(data []byte) (map[string]string, bool) {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false
	}
	return m, true
}

func fromAnyMap(v map[string]any) (map[string]string, bool) {
	out := make(map[string]string, len(v))
	for code, value := range v {
		text, ok := value.(string)
		if !ok {
			return nil, false
		}
		out[code] = text
	}
	return out, true
}
