// Package weighting produces the ordered, locale-expanded weighted field
// list used for multi-field query construction.
package weighting

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/esdex/internal/domain/boost"
	"github.com/kailas-cloud/esdex/internal/domain/fieldtree"
	"github.com/kailas-cloud/esdex/internal/domain/locale"
	"github.com/kailas-cloud/esdex/internal/usecase/translate"
)

// WeightedField is one (field path, weight) pair.
type WeightedField struct {
	Path   string  `json:"path"`
	Weight float64 `json:"weight"`
}

// List is an ordered weighted field list without duplicates.
type List []WeightedField

// QueryFields renders the list in `path^weight` form for multi-field query
// clauses; weight 1.0 stays an unsuffixed path.
func (l List) QueryFields() []string {
	out := make([]string, len(l))
	for i, f := range l {
		if f.Weight == boost.DefaultWeight {
			out[i] = f.Path
			continue
		}
		out[i] = f.Path + "^" + strconv.FormatFloat(f.Weight, 'g', -1, 64)
	}
	return out
}

// Service builds weighted field lists. Stateless; safe for concurrent use.
type Service struct{}

// New creates a field weigher.
func New() *Service { return &Service{} }

// Build traverses the field tree breadth-first in configuration order and
// emits one weighted entry per final field path. Translatable leaves expand
// into one entry per locale, all sharing the unexpanded field's weight; the
// weight comes from the boost tree at the same dotted path, defaulting to
// 1.0. The order is stable so generated query strings are reproducible.
func (s *Service) Build(
	fields *fieldtree.Tree,
	translatable *fieldtree.Tree,
	boosts *boost.Tree,
	locales locale.Set,
) List {
	resolver := translate.NewResolver(translatable)
	list := List{}
	seen := make(map[string]bool)

	type frame struct {
		tree   *fieldtree.Tree
		prefix string
	}
	queue := []frame{{tree: fields}}

	emit := func(path string, weight float64) {
		if seen[path] {
			return
		}
		seen[path] = true
		list = append(list, WeightedField{Path: path, Weight: weight})
	}

	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]

		for _, leaf := range f.tree.Leaves() {
			full := joinPath(f.prefix, leaf)
			weight := boosts.Lookup(full)
			if resolver.IsTranslatable(full) {
				for _, code := range locales.Codes() {
					emit(full+"_"+code, weight)
				}
				continue
			}
			emit(full, weight)
		}

		for _, name := range f.tree.Children() {
			sub, _ := f.tree.Child(name)
			queue = append(queue, frame{tree: sub, prefix: joinPath(f.prefix, name)})
		}
	}
	return list
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// String renders the list for logs.
func (l List) String() string {
	return strings.Join(l.QueryFields(), ", ")
}
