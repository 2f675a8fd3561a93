package indexing

import (
	"context"

	"github.com/kailas-cloud/esdex/internal/domain/document"
	"github.com/kailas-cloud/esdex/internal/domain/entity"
)

// Record is one source entity queued for indexing.
type Record struct {
	ID   string
	Node entity.Node
}

// IndexedDocument is one projected document ready for bulk delivery.
type IndexedDocument struct {
	ID     string
	Fields document.Document
}

// Source streams records for one model in chunks. Load returns at most limit
// records starting at offset; a short (or empty) result ends the run.
type Source interface {
	Load(ctx context.Context, model string, offset, limit int) ([]Record, error)
}

// Sink receives projected documents chunk by chunk, typically as one bulk
// request per call.
type Sink interface {
	Flush(ctx context.Context, index string, docs []IndexedDocument) error
}
