// Package entity abstracts the live records handed over by the relational
// data-access collaborator. A Node exposes raw attribute values and
// already-loaded relations; the projection engine never mutates or retains
// one beyond a single call, and never triggers lazy loading.
package entity

// Node is one live record of an entity graph.
type Node interface {
	// Attribute returns the raw value of a named attribute. The second
	// result is false when the record does not carry the attribute (for
	// example a partial projection).
	Attribute(name string) (any, bool)

	// Relation returns the related value for a relation name. An unloaded
	// relation is distinct from a loaded-but-empty one.
	Relation(name string) Relation
}

// RelationKind discriminates the three runtime shapes of a relation.
type RelationKind int

const (
	// RelationNotLoaded means the relation was not eager-loaded.
	RelationNotLoaded RelationKind = iota
	// RelationOne is a loaded single related record.
	RelationOne
	// RelationMany is a loaded sequence of related records (may be empty).
	RelationMany
)

// Relation is a three-case tagged variant: not loaded, a single related
// node, or an ordered sequence of related nodes. The zero value is
// RelationNotLoaded.
type Relation struct {
	kind RelationKind
	one  Node
	many []Node
}

// None returns the not-loaded relation value.
func None() Relation { return Relation{} }

// Single wraps one related record.
func Single(n Node) Relation {
	return Relation{kind: RelationOne, one: n}
}

// Collection wraps an ordered sequence of related records. A non-nil empty
// slice is a loaded, empty relation.
func Collection(nodes []Node) Relation {
	return Relation{kind: RelationMany, many: nodes}
}

// Kind returns the relation's shape.
func (r Relation) Kind() RelationKind { return r.kind }

// Loaded reports whether the relation was eager-loaded.
func (r Relation) Loaded() bool { return r.kind != RelationNotLoaded }

// One returns the single related node, if this is a RelationOne.
func (r Relation) One() (Node, bool) {
	return r.one, r.kind == RelationOne
}

// Many returns the related nodes in their natural order, if this is a
// RelationMany.
func (r Relation) Many() ([]Node, bool) {
	return r.many, r.kind == RelationMany
}
