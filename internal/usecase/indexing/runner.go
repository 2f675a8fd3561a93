// Package indexing drives full reindex runs: it pulls records from a Source
// in chunks, projects each record into a flat document, and hands the chunk
// to a Sink.
package indexing

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/esdex/internal/metrics"
	"github.com/kailas-cloud/esdex/internal/usecase/model"
	"github.com/kailas-cloud/esdex/internal/usecase/projection"
)

// DefaultWorkers bounds per-chunk projection concurrency when the caller
// does not configure it.
const DefaultWorkers = 4

// Stats summarizes one indexing run.
type Stats struct {
	Records int
	Chunks  int
}

// Runner executes indexing runs. Safe for concurrent use; each run keeps its
// own state.
type Runner struct {
	projector *projection.Service
	logger    *zap.Logger
	workers   int
}

// NewRunner creates a runner projecting with the given service. workers
// bounds in-flight projections per chunk; values below 1 fall back to
// DefaultWorkers.
func NewRunner(projector *projection.Service, workers int, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Runner{projector: projector, logger: logger, workers: workers}
}

// Run reindexes every record the source yields for the model. Documents
// within a chunk keep source order. The run stops at the first source, sink,
// or context error.
func (r *Runner) Run(ctx context.Context, def *model.Resolved, source Source, sink Sink) (Stats, error) {
	start := time.Now()
	var stats Stats

	for offset := 0; ; offset += def.ChunkSize {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("indexing %s: %w", def.Name, err)
		}

		records, err := source.Load(ctx, def.Name, offset, def.ChunkSize)
		if err != nil {
			metrics.IndexingRecordsTotal.WithLabelValues(def.Name, "failed").Add(float64(len(records)))
			return stats, fmt.Errorf("load %s records at offset %d: %w", def.Name, offset, err)
		}
		if len(records) == 0 {
			break
		}

		docs, err := r.projectChunk(ctx, def, records)
		if err != nil {
			return stats, err
		}

		if err := sink.Flush(ctx, def.IndexName, docs); err != nil {
			metrics.IndexingRecordsTotal.WithLabelValues(def.Name, "failed").Add(float64(len(docs)))
			return stats, fmt.Errorf("flush %s chunk at offset %d: %w", def.Name, offset, err)
		}

		stats.Records += len(records)
		stats.Chunks++
		metrics.IndexingRecordsTotal.WithLabelValues(def.Name, "ok").Add(float64(len(records)))
		metrics.IndexingChunksTotal.WithLabelValues(def.Name).Inc()

		r.logger.Debug("chunk flushed",
			zap.String("model", def.Name),
			zap.Int("offset", offset),
			zap.Int("records", len(records)))

		if len(records) < def.ChunkSize {
			break
		}
	}

	metrics.IndexingDuration.WithLabelValues(def.Name).Observe(time.Since(start).Seconds())
	r.logger.Info("indexing run finished",
		zap.String("model", def.Name),
		zap.Int("records", stats.Records),
		zap.Int("chunks", stats.Chunks),
		zap.Duration("took", time.Since(start)))
	return stats, nil
}

// projectChunk projects the chunk concurrently, keeping result order aligned
// with the source order.
func (r *Runner) projectChunk(ctx context.Context, def *model.Resolved, records []Record) ([]IndexedDocument, error) {
	docs := make([]IndexedDocument, len(records))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			fields := r.projector.Project(rec.Node, def.Fields, def.Translatable, def.Locales)
			docs[i] = IndexedDocument{ID: rec.ID, Fields: fields}
			metrics.ProjectionDocumentsTotal.WithLabelValues(def.Name).Inc()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("project %s chunk: %w", def.Name, err)
	}
	return docs, nil
}
