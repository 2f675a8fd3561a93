// Package schema models the search index field schema produced by the
// mapping builder. The shape mirrors an Elasticsearch create-index body.
package schema

// Field is the type descriptor for one field path.
//
// Boost deliberately has no representation here: relevance weights are a
// query-time concern and modern mapping APIs reject per-field static boost.
type Field struct {
	Type     string           `json:"type"`
	Analyzer string           `json:"analyzer,omitempty"`
	Format   string           `json:"format,omitempty"`
	Fields   map[string]Field `json:"fields,omitempty"`
}

// Mapping maps field paths (possibly locale-suffixed) to descriptors. It is
// built once per model configuration and is cacheable until the
// configuration changes. encoding/json serializes map keys sorted, so
// identical inputs marshal byte-identically.
type Mapping map[string]Field

// Settings describe index-level knobs consumed by the index-creation
// collaborator alongside the mapping.
type Settings struct {
	Shards   int
	Replicas int
}

// IndexBody renders the full create-index request body: settings (shard
// layout plus the analysis chain the generated fields reference) and
// mappings.properties. Dotted paths stay dotted; the search engine expands
// them into object fields.
func (m Mapping) IndexBody(s Settings) map[string]any {
	if s.Shards <= 0 {
		s.Shards = 1
	}
	if s.Replicas < 0 {
		s.Replicas = 0
	}
	return map[string]any{
		"settings": map[string]any{
			"number_of_shards":   s.Shards,
			"number_of_replicas": s.Replicas,
			"analysis":           analysisSettings(),
		},
		"mappings": map[string]any{
			"properties": m,
		},
	}
}

// analysisSettings defines the custom analyzers referenced by identifier
// sub-fields: whitespace-insensitive exact matching and edge-ngram prefix
// search.
func analysisSettings() map[string]any {
	return map[string]any{
		"filter": map[string]any{
			"prefix_edge": map[string]any{
				"type":     "edge_ngram",
				"min_gram": 2,
				"max_gram": 20,
			},
		},
		"analyzer": map[string]any{
			"identifier": map[string]any{
				"tokenizer": "keyword",
				"filter":    []string{"lowercase", "trim"},
			},
			"identifier_prefix": map[string]any{
				"tokenizer": "keyword",
				"filter":    []string{"lowercase", "trim", "prefix_edge"},
			},
		},
	}
}
