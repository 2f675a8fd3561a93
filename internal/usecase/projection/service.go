// Package projection walks a field tree in lock-step with a live entity
// graph and produces the flat document shipped to the search engine.
package projection

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esdex/internal/domain/document"
	"github.com/kailas-cloud/esdex/internal/domain/entity"
	"github.com/kailas-cloud/esdex/internal/domain/fieldtree"
	"github.com/kailas-cloud/esdex/internal/domain/locale"
	"github.com/kailas-cloud/esdex/internal/usecase/translate"
)

// Service projects entity graphs into documents. It is a pure transformation
// over immutable inputs: no I/O, no retained state, safe for concurrent use.
type Service struct {
	logger *zap.Logger
}

// New creates a projection service. A nil logger disables debug logging.
func New(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// Project flattens node along fields into a fresh Document.
//
// Translatable leaves expand into one `path_locale` entry per configured
// locale present in the decoded payload; a payload that doesn't decode as a
// locale map falls back to the raw value under the unsuffixed path. Missing
// attributes and unloaded relations are omitted. A single relation flattens
// under `relation.` path prefixes; a collection relation projects each
// member and space-joins the values per path in the sequence's natural
// order. The per-item correspondence between sibling fields of one related
// record is not preserved across a collection — this flattening strategy
// trades it away for a single flat document.
func (s *Service) Project(
	node entity.Node,
	fields *fieldtree.Tree,
	translatable *fieldtree.Tree,
	locales locale.Set,
) document.Document {
	doc := document.Document{}
	resolver := translate.NewResolver(translatable)
	s.project(node, fields, resolver, locales, "", doc)
	return doc
}

func (s *Service) project(
	node entity.Node,
	fields *fieldtree.Tree,
	resolver *translate.Resolver,
	locales locale.Set,
	prefix string,
	doc document.Document,
) {
	for _, leaf := range fields.Leaves() {
		s.projectLeaf(node, leaf, resolver, locales, prefix, doc)
	}

	for _, name := range fields.Children() {
		sub, _ := fields.Child(name)
		rel := node.Relation(name)
		switch rel.Kind() {
		case entity.RelationNotLoaded:
			// Never lazily fetch: the relation's fields are simply absent.
			s.logger.Debug("relation not loaded, skipping",
				zap.String("relation", joinPath(prefix, name)))
		case entity.RelationOne:
			child, _ := rel.One()
			s.project(child, sub, resolver, locales, joinPath(prefix, name)+".", doc)
		case entity.RelationMany:
			members, _ := rel.Many()
			s.projectCollection(members, sub, resolver, locales, joinPath(prefix, name)+".", doc)
		}
	}
}

func (s *Service) projectLeaf(
	node entity.Node,
	leaf string,
	resolver *translate.Resolver,
	locales locale.Set,
	prefix string,
	doc document.Document,
) {
	full := joinPath(prefix, leaf)
	raw, ok := node.Attribute(leaf)
	if !ok {
		return
	}

	if !resolver.IsTranslatable(full) {
		doc[full] = raw
		return
	}

	localized, ok := translate.DecodeLocalized(raw)
	if !ok {
		// Graceful fallback: keep the raw value under the unsuffixed path.
		doc[full] = raw
		return
	}
	for _, code := range locales.Codes() {
		if text, present := localized[code]; present {
			doc[full+"_"+code] = text
		}
	}
}

// projectCollection projects every member independently and aggregates the
// resulting values per path, space-joined in member order.
func (s *Service) projectCollection(
	members []entity.Node,
	fields *fieldtree.Tree,
	resolver *translate.Resolver,
	locales locale.Set,
	prefix string,
	doc document.Document,
) {
	var order []string
	values := make(map[string][]string)

	for _, member := range members {
		memberDoc := document.Document{}
		s.project(member, fields, resolver, locales, prefix, memberDoc)
		for _, path := range memberDoc.Keys() {
			if _, seen := values[path]; !seen {
				order = append(order, path)
			}
			values[path] = append(values[path], stringify(memberDoc[path]))
		}
	}

	for _, path := range order {
		doc[path] = strings.Join(values[path], " ")
	}
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(v)
	}
}

func joinPath(prefix, name string) string {
	return prefix + name
}
