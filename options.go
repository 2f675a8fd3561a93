package esdex

import (
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esdex/internal/cache"
)

// Option configures the Engine.
type Option func(*engineConfig)

type engineConfig struct {
	logger *zap.Logger

	cache       cache.Cache
	redisAddrs  []string
	redisPass   string
	redisPrefix string
	ttl         time.Duration

	workers int
	typer   Typer
}

// Typer overrides mapping type inference for non-translatable fields. It
// receives the unqualified field name and returns its type descriptor.
type Typer func(field string) Field

// WithLogger enables structured logging for engine operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = l
	}
}

// WithCache stores derived artifacts (mappings, weighted field lists) in the
// given cache.
func WithCache(c cache.Cache) Option {
	return func(cfg *engineConfig) {
		cfg.cache = c
	}
}

// WithRedisCache stores derived artifacts in Redis/Valkey. prefix namespaces
// the keys; empty uses the default prefix.
func WithRedisCache(addrs []string, password, prefix string) Option {
	return func(c *engineConfig) {
		c.redisAddrs = addrs
		c.redisPass = password
		c.redisPrefix = prefix
	}
}

// WithTTL sets the expiry of cached artifacts. Non-positive means no expiry.
// Default: 1 hour.
func WithTTL(ttl time.Duration) Option {
	return func(c *engineConfig) {
		c.ttl = ttl
	}
}

// WithWorkers bounds per-chunk projection concurrency during indexing runs.
func WithWorkers(n int) Option {
	return func(c *engineConfig) {
		c.workers = n
	}
}

// WithTyper replaces the default mapping type inference.
func WithTyper(t Typer) Option {
	return func(c *engineConfig) {
		c.typer = t
	}
}
