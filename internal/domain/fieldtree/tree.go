// Package fieldtree models the searchable-fields configuration as an
// unambiguous tree of plain field names (leaves) and named relation subtrees
// (children). The raw configuration format allows both side by side in one
// collection; parsing classifies every entry exactly once, so consumers never
// re-inspect raw key shapes.
package fieldtree

import "strings"

// Tree is one node of a parsed field tree (immutable after Parse).
// Leaves and children are disjoint; both preserve first-seen configuration
// order so derived outputs (weighted field lists) are reproducible.
type Tree struct {
	leaves    []string
	leafSet   map[string]struct{}
	children  map[string]*Tree
	childOrds []string
}

func newTree() *Tree {
	return &Tree{
		leafSet:  make(map[string]struct{}),
		children: make(map[string]*Tree),
	}
}

// Leaves returns plain field names in configuration order.
func (t *Tree) Leaves() []string {
	if t == nil {
		return nil
	}
	return t.leaves
}

// HasLeaf reports whether name is a plain field of this node.
func (t *Tree) HasLeaf(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.leafSet[name]
	return ok
}

// Children returns relation names in configuration order.
func (t *Tree) Children() []string {
	if t == nil {
		return nil
	}
	return t.childOrds
}

// Child returns the subtree for a relation name.
func (t *Tree) Child(name string) (*Tree, bool) {
	if t == nil {
		return nil, false
	}
	c, ok := t.children[name]
	return c, ok
}

// IsEmpty reports whether the node selects no fields at all.
func (t *Tree) IsEmpty() bool {
	return t == nil || (len(t.leaves) == 0 && len(t.childOrds) == 0)
}

// Contains walks the tree along a dotted path, descending into children for
// every segment except the last, and reports whether the final segment is a
// leaf of the node reached. A missing intermediate child means false, not an
// error. Depth zero (a top-level field) uses the same walk.
func (t *Tree) Contains(path string) bool {
	if t == nil || path == "" {
		return false
	}
	node := t
	segments := strings.Split(path, ".")
	for _, seg := range segments[:len(segments)-1] {
		child, ok := node.Child(seg)
		if !ok {
			return false
		}
		node = child
	}
	return node.HasLeaf(segments[len(segments)-1])
}

// RelationPaths returns the flattened dotted paths of every relation in the
// tree, depth-first in configuration order. Data-access collaborators use
// this list to know which relations to eager-load before projection.
func (t *Tree) RelationPaths() []string {
	if t == nil {
		return nil
	}
	var paths []string
	t.relationPaths("", &paths)
	return paths
}

func (t *Tree) relationPaths(prefix string, out *[]string) {
	for _, name := range t.childOrds {
		full := joinPath(prefix, name)
		*out = append(*out, full)
		t.children[name].relationPaths(full, out)
	}
}

func (t *Tree) addLeaf(name string) {
	if _, ok := t.leafSet[name]; ok {
		return
	}
	t.leafSet[name] = struct{}{}
	t.leaves = append(t.leaves, name)
}

// mergeChild unions sub into the child named name, creating it if absent.
// Declaring the same relation twice must not drop the earlier subtree.
func (t *Tree) mergeChild(name string, sub *Tree) {
	existing, ok := t.children[name]
	if !ok {
		t.children[name] = sub
		t.childOrds = append(t.childOrds, name)
		return
	}
	for _, leaf := range sub.leaves {
		existing.addLeaf(leaf)
	}
	for _, childName := range sub.childOrds {
		existing.mergeChild(childName, sub.children[childName])
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
