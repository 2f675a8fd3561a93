package esdex

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esdex/internal/cache"
	cacheRedis "github.com/kailas-cloud/esdex/internal/cache/redis"
	"github.com/kailas-cloud/esdex/internal/domain/entity"
	"github.com/kailas-cloud/esdex/internal/domain/schema"
	"github.com/kailas-cloud/esdex/internal/metrics"
	"github.com/kailas-cloud/esdex/internal/usecase/indexing"
	"github.com/kailas-cloud/esdex/internal/usecase/mapping"
	modeluc "github.com/kailas-cloud/esdex/internal/usecase/model"
	"github.com/kailas-cloud/esdex/internal/usecase/projection"
	"github.com/kailas-cloud/esdex/internal/usecase/weighting"
)

const defaultArtifactTTL = time.Hour

// Artifact names used in cache keys.
const (
	artifactMapping = "mapping"
	artifactFields  = "fields"
)

// Engine is the esdex entry point: it resolves model definitions and derives
// documents, mappings and weighted query fields from them.
type Engine struct {
	registry  *modeluc.Registry
	projector *projection.Service
	mapper    *mapping.Service
	weigher   *weighting.Service
	runner    *indexing.Runner

	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger

	closeCache func()
}

// New creates an Engine over the given model definitions.
func New(models map[string]ModelConfig, opts ...Option) (*Engine, error) {
	cfg := &engineConfig{ttl: defaultArtifactTTL}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	e := &Engine{
		cache:  cfg.cache,
		ttl:    cfg.ttl,
		logger: cfg.logger,
	}

	if e.cache == nil && len(cfg.redisAddrs) > 0 {
		rc, err := cacheRedis.New(cacheRedis.Config{
			Addrs:    cfg.redisAddrs,
			Password: cfg.redisPass,
			Prefix:   cfg.redisPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("esdex: create redis cache: %w", err)
		}
		e.cache = rc
		e.closeCache = rc.Close
	}

	configs := make(map[string]modeluc.Config, len(models))
	for name, m := range models {
		configs[name] = modeluc.Config{
			SearchableFields:   m.SearchableFields,
			TranslatableFields: m.TranslatableFields,
			Locales:            m.Locales,
			FallbackLocale:     m.FallbackLocale,
			Boost:              m.Boost,
			ChunkSize:          m.ChunkSize,
			IndexName:          m.IndexName,
			Shards:             m.Shards,
			Replicas:           m.Replicas,
			Version:            m.Version,
		}
	}

	e.registry = modeluc.NewRegistry(configs, e.cache, cfg.logger)
	e.projector = projection.New(cfg.logger)
	e.weigher = weighting.New()
	e.runner = indexing.NewRunner(e.projector, cfg.workers, cfg.logger)

	var typer mapping.Typer
	if cfg.typer != nil {
		typer = func(field string) schema.Field { return cfg.typer(field) }
	}
	e.mapper = mapping.New(typer)

	return e, nil
}

// Close releases the cache connection, if the Engine owns one.
func (e *Engine) Close() {
	if e.closeCache != nil {
		e.closeCache()
	}
}

// Models returns the configured model names in sorted order.
func (e *Engine) Models() []string {
	return e.registry.Models()
}

// Invalidate drops all memoized model definitions and cached artifacts so
// the next operation re-derives from configuration.
func (e *Engine) Invalidate(ctx context.Context) error {
	return e.registry.Invalidate(ctx)
}

// Project flattens one entity graph into a search document per the model's
// field tree. The entity is never mutated; unloaded relations are skipped.
func (e *Engine) Project(ctx context.Context, model string, node Node) (Document, error) {
	def, err := e.registry.Resolve(ctx, model)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	doc := e.projector.Project(node, def.Fields, def.Translatable, def.Locales)
	metrics.ProjectionDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())
	metrics.ProjectionDocumentsTotal.WithLabelValues(model).Inc()
	return doc, nil
}

// ProjectStruct is Project for a tagged struct: fields tagged `esdex:"name"`
// become attributes, `esdex:"name,relation"` become relations.
func (e *Engine) ProjectStruct(ctx context.Context, model string, item any) (Document, error) {
	node, err := entity.FromStruct(item)
	if err != nil {
		return nil, fmt.Errorf("esdex: %w", err)
	}
	return e.Project(ctx, model, node)
}

// Mapping derives the flat index mapping for the model. Translatable fields
// expand into one locale-suffixed entry per configured locale. The result
// never carries boost values.
func (e *Engine) Mapping(ctx context.Context, model string) (Mapping, error) {
	def, err := e.registry.Resolve(ctx, model)
	if err != nil {
		return nil, err
	}

	key := cache.Key(def.Name, def.Version, artifactMapping)
	var cached Mapping
	if ok := e.cacheGet(ctx, key, artifactMapping, &cached); ok {
		return cached, nil
	}

	m := e.mapper.Build(def.Fields, def.Translatable, def.Locales)
	e.cachePut(ctx, key, m)
	return m, nil
}

// IndexBody renders the full index-creation body: settings (shards,
// replicas, analysis) plus the mapping properties.
func (e *Engine) IndexBody(ctx context.Context, model string) (map[string]any, error) {
	def, err := e.registry.Resolve(ctx, model)
	if err != nil {
		return nil, err
	}
	m, err := e.Mapping(ctx, model)
	if err != nil {
		return nil, err
	}
	return m.IndexBody(schema.Settings{Shards: def.Shards, Replicas: def.Replicas}), nil
}

// WeightedFields derives the ordered weighted query-field list for the
// model: breadth-first over the field tree, translatable fields expanded per
// locale, weights from the model's boost configuration.
func (e *Engine) WeightedFields(ctx context.Context, model string) (FieldList, error) {
	def, err := e.registry.Resolve(ctx, model)
	if err != nil {
		return nil, err
	}

	key := cache.Key(def.Name, def.Version, artifactFields)
	var cached FieldList
	if ok := e.cacheGet(ctx, key, artifactFields, &cached); ok {
		return cached, nil
	}

	list := e.weigher.Build(def.Fields, def.Translatable, def.Boosts, def.Locales)
	e.cachePut(ctx, key, list)
	return list, nil
}

// QueryFields renders WeightedFields as "path^weight" strings ready for a
// multi-match query; fields with the default weight stay unsuffixed.
func (e *Engine) QueryFields(ctx context.Context, model string) ([]string, error) {
	list, err := e.WeightedFields(ctx, model)
	if err != nil {
		return nil, err
	}
	return list.QueryFields(), nil
}

// RelationPaths returns the dotted relation paths of the model's field tree
// in configuration order, for the data layer to eager-load.
func (e *Engine) RelationPaths(ctx context.Context, model string) ([]string, error) {
	def, err := e.registry.Resolve(ctx, model)
	if err != nil {
		return nil, err
	}
	return def.Fields.RelationPaths(), nil
}

// IndexName returns the search index name configured for the model.
func (e *Engine) IndexName(ctx context.Context, model string) (string, error) {
	def, err := e.registry.Resolve(ctx, model)
	if err != nil {
		return "", err
	}
	return def.IndexName, nil
}

// Reindex runs a full indexing pass for the model: records stream from
// source in chunks, project concurrently, and flush to sink in source order.
func (e *Engine) Reindex(ctx context.Context, model string, source Source, sink Sink) (Stats, error) {
	def, err := e.registry.Resolve(ctx, model)
	if err != nil {
		return Stats{}, err
	}
	return e.runner.Run(ctx, def, source, sink)
}

// cacheGet loads and decodes a cached artifact. Cache failures are logged
// and treated as misses; the artifact is always re-derivable.
func (e *Engine) cacheGet(ctx context.Context, key, artifact string, out any) bool {
	if e.cache == nil {
		return false
	}
	data, found, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.Warn("artifact cache get failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !found {
		metrics.CacheTotal.WithLabelValues(artifact, "miss").Inc()
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		e.logger.Warn("artifact cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	metrics.CacheTotal.WithLabelValues(artifact, "hit").Inc()
	return true
}

func (e *Engine) cachePut(ctx context.Context, key string, artifact any) {
	if e.cache == nil {
		return
	}
	data, err := json.Marshal(artifact)
	if err != nil {
		e.logger.Warn("artifact not serializable", zap.String("key", key), zap.Error(err))
		return
	}
	if err := e.cache.Put(ctx, key, data, e.ttl); err != nil {
		e.logger.Warn("artifact cache put failed", zap.String("key", key), zap.Error(err))
	}
}
