// Package boost models query-time relevance weights per configured field or
// relation. Weights are a strictly query-time concern; the mapping builder
// never consumes them.
package boost

import (
	"fmt"
	"strings"
)

// DefaultWeight applies to every field absent from the boost configuration.
const DefaultWeight = 1.0

// Tree maps field names to weights and relation names to nested boost trees.
// A nil Tree is valid and yields DefaultWeight everywhere.
type Tree struct {
	weights  map[string]float64
	children map[string]*Tree
}

// ConfigError reports a malformed boost entry with its dotted path.
type ConfigError struct {
	Path   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("boost config at %q: %s", e.Path, e.Reason)
}

// Parse normalizes a raw boost configuration (a mapping of field name →
// weight or relation name → nested mapping) into a Tree.
func Parse(raw any) (*Tree, error) {
	if raw == nil {
		return nil, nil
	}
	return parseNode(raw, "")
}

func parseNode(raw any, path string) (*Tree, error) {
	tree := &Tree{
		weights:  make(map[string]float64),
		children: make(map[string]*Tree),
	}

	add := func(key string, value any) error {
		full := key
		if path != "" {
			full = path + "." + key
		}
		if w, ok := toWeight(value); ok {
			if w <= 0 {
				return &ConfigError{Path: full, Reason: fmt.Sprintf("weight must be positive, got %v", w)}
			}
			tree.weights[key] = w
			return nil
		}
		switch value.(type) {
		case map[string]any, map[any]any:
			sub, err := parseNode(value, full)
			if err != nil {
				return err
			}
			tree.children[key] = sub
			return nil
		default:
			return &ConfigError{Path: full, Reason: fmt.Sprintf("expected weight or nested mapping, got %T", value)}
		}
	}

	switch v := raw.(type) {
	case map[string]any:
		for k, val := range v {
			if err := add(k, val); err != nil {
				return nil, err
			}
		}
	case map[any]any:
		for k, val := range v {
			if err := add(fmt.Sprint(k), val); err != nil {
				return nil, err
			}
		}
	default:
		return nil, &ConfigError{Path: path, Reason: fmt.Sprintf("expected mapping, got %T", raw)}
	}
	return tree, nil
}

// Lookup returns the weight configured at a dotted field path, descending
// through nested trees for relation segments. Missing entries yield
// DefaultWeight.
func (t *Tree) Lookup(path string) float64 {
	if t == nil || path == "" {
		return DefaultWeight
	}
	node := t
	segments := strings.Split(path, ".")
	for _, seg := range segments[:len(segments)-1] {
		child, ok := node.children[seg]
		if !ok {
			return DefaultWeight
		}
		node = child
	}
	if w, ok := node.weights[segments[len(segments)-1]]; ok {
		return w
	}
	return DefaultWeight
}

func toWeight(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
