// Package model resolves declarative model definitions into the parsed
// domain trees the projection and mapping services consume.
package model

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esdex/internal/domain"
	"github.com/kailas-cloud/esdex/internal/domain/boost"
	"github.com/kailas-cloud/esdex/internal/domain/fieldtree"
	"github.com/kailas-cloud/esdex/internal/domain/locale"
)

// Config is the raw, unparsed definition of one model as it arrives from
// configuration. SearchableFields and TranslatableFields carry the decoded
// YAML/JSON value verbatim.
type Config struct {
	SearchableFields   any
	TranslatableFields any
	Locales            []string
	FallbackLocale     string
	Boost              map[string]any
	ChunkSize          int
	IndexName          string
	Shards             int
	Replicas           int
	Version            string
}

// Resolved is a fully parsed model definition. All trees are immutable after
// resolution and safe for concurrent use.
type Resolved struct {
	Name         string
	Fields       *fieldtree.Tree
	Translatable *fieldtree.Tree
	Boosts       *boost.Tree
	Locales      locale.Set
	ChunkSize    int
	IndexName    string
	Shards       int
	Replicas     int
	Version      string
}

// Localized reports whether the model declares translatable fields.
func (r *Resolved) Localized() bool {
	return r.Translatable != nil && !r.Translatable.IsEmpty()
}

// ArtifactClearer removes derived artifacts from the external cache.
type ArtifactClearer interface {
	Clear(ctx context.Context) error
}

// Registry resolves model names to parsed definitions and memoizes the
// result. Parsing a field tree is cheap but not free, and registry lookups
// sit on the projection hot path.
type Registry struct {
	configs map[string]Config
	cache   ArtifactClearer
	logger  *zap.Logger

	mu       sync.RWMutex
	resolved map[string]*Resolved
}

// NewRegistry creates a registry over the given model configs. cache may be
// nil when no external artifact cache is wired.
func NewRegistry(configs map[string]Config, cache ArtifactClearer, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		configs:  configs,
		cache:    cache,
		logger:   logger,
		resolved: make(map[string]*Resolved, len(configs)),
	}
}

// Resolve returns the parsed definition for name, parsing it on first use.
// Unknown names yield domain.ErrUnknownModel.
func (r *Registry) Resolve(_ context.Context, name string) (*Resolved, error) {
	r.mu.RLock()
	res, ok := r.resolved[name]
	r.mu.RUnlock()
	if ok {
		return res, nil
	}

	cfg, ok := r.configs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownModel, name)
	}

	res, err := resolve(name, cfg)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	// Another goroutine may have resolved the same model concurrently;
	// both results are identical, keep the first one stored.
	if prior, ok := r.resolved[name]; ok {
		res = prior
	} else {
		r.resolved[name] = res
	}
	r.mu.Unlock()

	r.logger.Debug("model resolved",
		zap.String("model", name),
		zap.String("version", res.Version))
	return res, nil
}

// Models returns the configured model names in sorted order.
func (r *Registry) Models() []string {
	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invalidate drops all memoized definitions and clears the external artifact
// cache so the next Resolve re-parses from configuration.
func (r *Registry) Invalidate(ctx context.Context) error {
	r.mu.Lock()
	r.resolved = make(map[string]*Resolved, len(r.configs))
	r.mu.Unlock()

	if r.cache == nil {
		return nil
	}
	if err := r.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear artifact cache: %w", err)
	}
	return nil
}

func resolve(name string, cfg Config) (*Resolved, error) {
	fields, err := fieldtree.Parse(cfg.SearchableFields)
	if err != nil {
		return nil, fmt.Errorf("%w: model %s searchable_fields: %v", domain.ErrInvalidConfig, name, err)
	}
	if fields.IsEmpty() {
		return nil, fmt.Errorf("%w: model %s declares no searchable fields", domain.ErrInvalidConfig, name)
	}

	res := &Resolved{
		Name:      name,
		Fields:    fields,
		ChunkSize: cfg.ChunkSize,
		IndexName: cfg.IndexName,
		Shards:    cfg.Shards,
		Replicas:  cfg.Replicas,
		Version:   cfg.Version,
	}

	if cfg.TranslatableFields != nil {
		translatable, err := fieldtree.Parse(cfg.TranslatableFields)
		if err != nil {
			return nil, fmt.Errorf("%w: model %s translatable fields: %v", domain.ErrInvalidConfig, name, err)
		}
		locales, err := locale.New(cfg.Locales, cfg.FallbackLocale)
		if err != nil {
			return nil, fmt.Errorf("%w: model %s locales: %v", domain.ErrInvalidConfig, name, err)
		}
		res.Translatable = translatable
		res.Locales = locales
	}

	if cfg.Boost != nil {
		boosts, err := boost.Parse(cfg.Boost)
		if err != nil {
			return nil, fmt.Errorf("%w: model %s boost: %v", domain.ErrInvalidConfig, name, err)
		}
		res.Boosts = boosts
	}

	if res.IndexName == "" {
		res.IndexName = name
	}
	if res.ChunkSize <= 0 {
		res.ChunkSize = defaultChunkSize
	}
	if res.Shards <= 0 {
		res.Shards = 1
	}
	if res.Version == "" {
		res.Version = "1"
	}

	return res, nil
}

const defaultChunkSize = 500
