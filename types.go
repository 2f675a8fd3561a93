package esdex

import (
	"github.com/kailas-cloud/esdex/internal/domain"
	"github.com/kailas-cloud/esdex/internal/domain/document"
	"github.com/kailas-cloud/esdex/internal/domain/entity"
	"github.com/kailas-cloud/esdex/internal/domain/schema"
	"github.com/kailas-cloud/esdex/internal/usecase/indexing"
	"github.com/kailas-cloud/esdex/internal/usecase/weighting"
)

// Sentinel errors returned by Engine operations. Test with errors.Is.
var (
	// ErrUnknownModel is returned when an operation names a model that is
	// not configured.
	ErrUnknownModel = domain.ErrUnknownModel

	// ErrInvalidConfig is returned when a model definition cannot be
	// parsed.
	ErrInvalidConfig = domain.ErrInvalidConfig
)

// Document is a flat projected document: dotted (and locale-suffixed) field
// paths mapped to raw values.
type Document = document.Document

// Mapping is a flat index mapping: field paths mapped to type descriptors.
type Mapping = schema.Mapping

// Field is the type descriptor for one mapping entry.
type Field = schema.Field

// WeightedField is one query-time search field with its relevance weight.
type WeightedField = weighting.WeightedField

// FieldList is an ordered list of weighted query fields.
type FieldList = weighting.List

// Node is one live record of an entity graph. Implement it directly, use
// Map for decoded rows, or derive one from a tagged struct with
// ProjectStruct.
type Node = entity.Node

// Map is a map-backed Node.
type Map = entity.Map

// FromStruct derives a Node from a tagged struct: fields tagged
// `esdex:"name"` become attributes, `esdex:"name,relation"` become relations
// (nil pointers and nil slices are not loaded), `esdex:"-"` is skipped.
func FromStruct(item any) (Node, error) {
	return entity.FromStruct(item)
}

// Relation is the value of one named relation on a Node.
type Relation = entity.Relation

// NotLoaded marks a relation the data layer did not load.
func NotLoaded() Relation { return entity.None() }

// One wraps a single related record.
func One(n Node) Relation { return entity.Single(n) }

// Many wraps an ordered collection of related records. A nil or empty slice
// is a loaded, empty relation, distinct from NotLoaded.
func Many(nodes []Node) Relation { return entity.Collection(nodes) }

// Record is one source entity queued for indexing.
type Record = indexing.Record

// IndexedDocument is one projected document ready for bulk delivery.
type IndexedDocument = indexing.IndexedDocument

// Source streams records for one model in chunks.
type Source = indexing.Source

// Sink receives projected documents chunk by chunk.
type Sink = indexing.Sink

// Stats summarizes one indexing run.
type Stats = indexing.Stats

// ModelConfig is the declarative definition of one searchable model.
type ModelConfig struct {
	// SearchableFields is the decoded field tree: a sequence mixing plain
	// field names and relation mappings, or the equivalent mapping form
	// with positional integer keys.
	SearchableFields any

	// TranslatableFields marks the subset of fields carrying per-locale
	// payloads. Nil means nothing is translatable.
	TranslatableFields any

	// Locales lists the locale codes to expand translatable fields into.
	// Required when TranslatableFields is set.
	Locales []string

	// FallbackLocale must be one of Locales; empty defaults to the first.
	FallbackLocale string

	// Boost maps field or relation names to query-time weights. Weights
	// never reach the mapping.
	Boost map[string]any

	// ChunkSize is the indexing batch size. Defaults to 500.
	ChunkSize int

	// IndexName names the search index. Defaults to the model name.
	IndexName string

	// Shards and Replicas are handed to index creation.
	Shards   int
	Replicas int

	// Version participates in artifact cache keys; bump it when the
	// definition changes to bypass cached artifacts immediately.
	Version string
}
