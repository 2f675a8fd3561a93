package entity

// Map is a map-backed Node for callers that already hold decoded rows
// (and for test fixtures).
type Map struct {
	Attrs     map[string]any
	Relations map[string]Relation
}

var _ Node = Map{}

// Attribute implements Node.
func (m Map) Attribute(name string) (any, bool) {
	v, ok := m.Attrs[name]
	return v, ok
}

// Relation implements Node. Names absent from the map are not loaded.
func (m Map) Relation(name string) Relation {
	return m.Relations[name]
}
