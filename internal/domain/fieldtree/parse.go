package fieldtree

import (
	"fmt"
	"sort"
	"strconv"
)

// ConfigError reports a malformed searchable-fields entry with the dotted
// path of the offending configuration value.
type ConfigError struct {
	Path   string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return "searchable fields config: " + e.Reason
	}
	return fmt.Sprintf("searchable fields config at %q: %s", e.Path, e.Reason)
}

// Parse normalizes a raw configuration value into a Tree.
//
// Accepted shapes, matching what YAML and JSON decoders produce:
//   - a plain string: a single leaf;
//   - a sequence ([]any): string elements are leaves, map elements contribute
//     relation children;
//   - a mapping (map[string]any or map[any]any): entries whose key is part of
//     the sequential integer run 0..n-1 are positional and must hold a
//     field-name string; every other entry is a relation child whose value is
//     parsed recursively. A child value that is a single string is shorthand
//     for a one-leaf subtree.
//
// Classification is positional-vs-named only; it never depends on the literal
// key type a decoder happened to produce (a JSON object keyed "0", "1", ...
// classifies the same as a YAML sequence). Duplicate relation names at one
// level merge their subtrees.
func Parse(raw any) (*Tree, error) {
	return parseNode(raw, "")
}

func parseNode(raw any, path string) (*Tree, error) {
	tree := newTree()
	switch v := raw.(type) {
	case nil:
		return tree, nil
	case string:
		tree.addLeaf(v)
		return tree, nil
	case []any:
		return tree, parseSequence(tree, v, path)
	case map[string]any:
		entries := make([]entry, 0, len(v))
		for k, val := range v {
			entries = append(entries, entry{key: k, value: val})
		}
		return tree, parseMapping(tree, entries, path)
	case map[any]any:
		entries := make([]entry, 0, len(v))
		for k, val := range v {
			entries = append(entries, entry{key: keyString(k), value: val})
		}
		return tree, parseMapping(tree, entries, path)
	default:
		return nil, &ConfigError{
			Path:   path,
			Reason: fmt.Sprintf("expected field name or tree, got %T", raw),
		}
	}
}

func parseSequence(tree *Tree, items []any, path string) error {
	for i, item := range items {
		switch v := item.(type) {
		case string:
			tree.addLeaf(v)
		case map[string]any:
			for k, val := range v {
				if err := parseChild(tree, k, val, path); err != nil {
					return err
				}
			}
		case map[any]any:
			for k, val := range v {
				if err := parseChild(tree, keyString(k), val, path); err != nil {
					return err
				}
			}
		default:
			return &ConfigError{
				Path:   joinPath(path, strconv.Itoa(i)),
				Reason: fmt.Sprintf("expected field name or relation mapping, got %T", item),
			}
		}
	}
	return nil
}

type entry struct {
	key   string
	value any
}

// parseMapping classifies mixed mapping entries. Integer keys forming the
// sequential run 0..k are positional leaves; everything else, including an
// integer key outside the run, is a named relation child.
func parseMapping(tree *Tree, entries []entry, path string) error {
	indexed := make(map[int]entry)
	var named []entry
	for _, e := range entries {
		if idx, ok := parseIndex(e.key); ok {
			indexed[idx] = e
			continue
		}
		named = append(named, e)
	}

	for next := 0; ; next++ {
		e, ok := indexed[next]
		if !ok {
			break
		}
		delete(indexed, next)
		name, isString := e.value.(string)
		if !isString {
			return &ConfigError{
				Path:   joinPath(path, e.key),
				Reason: fmt.Sprintf("positional entry must be a field name, got %T", e.value),
			}
		}
		tree.addLeaf(name)
	}

	// Integer keys left over are outside the sequential run: named children.
	for _, e := range indexed {
		named = append(named, e)
	}

	sort.SliceStable(named, func(i, j int) bool { return named[i].key < named[j].key })
	for _, e := range named {
		if err := parseChild(tree, e.key, e.value, path); err != nil {
			return err
		}
	}
	return nil
}

func parseChild(tree *Tree, name string, value any, path string) error {
	sub, err := parseNode(value, joinPath(path, name))
	if err != nil {
		return err
	}
	tree.mergeChild(name, sub)
	return nil
}

func parseIndex(key string) (int, bool) {
	if key == "" {
		return 0, false
	}
	idx, err := strconv.Atoi(key)
	if err != nil || idx < 0 {
		return 0, false
	}
	// Reject "+1", "01" and similar: only canonical decimal forms are
	// positional, anything else is an author-chosen name.
	if strconv.Itoa(idx) != key {
		return 0, false
	}
	return idx, true
}

func keyString(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case int:
		return strconv.Itoa(k)
	case int64:
		return strconv.FormatInt(k, 10)
	case uint64:
		return strconv.FormatUint(k, 10)
	case float64:
		if k == float64(int64(k)) {
			return strconv.FormatInt(int64(k), 10)
		}
		return strconv.FormatFloat(k, 'g', -1, 64)
	default:
		return fmt.Sprint(k)
	}
}
