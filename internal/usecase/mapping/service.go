// Package mapping builds the search index field schema from a field tree,
// without touching live data.
package mapping

import (
	"github.com/kailas-cloud/esdex/internal/domain/fieldtree"
	"github.com/kailas-cloud/esdex/internal/domain/locale"
	"github.com/kailas-cloud/esdex/internal/domain/schema"
	"github.com/kailas-cloud/esdex/internal/usecase/translate"
)

// Service builds mapping schemas. Stateless apart from the type-inference
// rule; safe for concurrent use.
type Service struct {
	typer Typer
}

// New creates a mapping builder. A nil typer uses DefaultTyper.
func New(typer Typer) *Service {
	if typer == nil {
		typer = DefaultTyper
	}
	return &Service{typer: typer}
}

// Build walks the field tree and emits one schema entry per field path.
// Translatable leaves expand into one text entry per locale with that
// locale's analyzer; other leaves use the type-inference rule. Relation
// children recurse under their dotted prefix; nesting never changes the
// per-field rules. No boost value is ever written — relevance weighting is
// query-time only (see the weighting package).
func (s *Service) Build(
	fields *fieldtree.Tree,
	translatable *fieldtree.Tree,
	locales locale.Set,
) schema.Mapping {
	m := schema.Mapping{}
	resolver := translate.NewResolver(translatable)
	s.build(fields, resolver, locales, "", m)
	return m
}

func (s *Service) build(
	fields *fieldtree.Tree,
	resolver *translate.Resolver,
	locales locale.Set,
	prefix string,
	m schema.Mapping,
) {
	for _, leaf := range fields.Leaves() {
		full := prefix + leaf
		if resolver.IsTranslatable(full) {
			for _, code := range locales.Codes() {
				m[full+"_"+code] = schema.Field{
					Type:     "text",
					Analyzer: locales.Analyzer(code),
				}
			}
			continue
		}
		m[full] = s.typer(leaf)
	}

	for _, name := range fields.Children() {
		sub, _ := fields.Child(name)
		s.build(sub, resolver, locales, prefix+name+".", m)
	}
}
