// Package esdex derives search-engine artifacts from declarative model
// definitions: flat documents projected from relational entity graphs, index
// mappings with per-locale field expansion, and weighted query-field lists.
//
// A model definition is a field tree — plain attribute names plus nested
// relation subtrees — with an optional translatable subset, a locale list,
// and query-time boost weights. The same tree drives all three derivations,
// so documents, mappings and query fields never drift apart:
//
//	engine, err := esdex.New(map[string]esdex.ModelConfig{
//		"products": {
//			SearchableFields: []any{
//				"sku", "title",
//				map[string]any{"category": []any{"title"}},
//			},
//			TranslatableFields: []any{
//				"title",
//				map[string]any{"category": []any{"title"}},
//			},
//			Locales: []string{"en", "lv"},
//			Boost:   map[string]any{"title": 3},
//		},
//	})
//
// Translatable fields expand per locale: a document carries title_en and
// title_lv, never a bare title; the mapping types each suffixed path with
// the locale's language analyzer; query fields render as title_en^3. Boost
// weights apply at query time only and are never written into the mapping.
//
// One-to-many relations flatten into space-joined strings in entity order,
// trading per-item field correspondence for a single flat document.
package esdex
