// Package cache defines the derived-artifact cache collaborator: parsed
// model configuration products (mappings, weighted field lists) keyed by
// model identifier and configuration version, with TTL-based invalidation
// and an explicit Clear.
package cache

import (
	"context"
	"time"
)

// Cache stores serialized derived artifacts. Implementations must support
// concurrent reads; a miss on one key must never block other lookups.
type Cache interface {
	// Get returns the cached value for key; found=false on a miss or an
	// expired entry.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Put stores value under key. A non-positive ttl means no expiry.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Clear drops every entry written by this cache.
	Clear(ctx context.Context) error
}

// Key builds the canonical artifact cache key. The config version is part of
// the key so a configuration change never serves stale artifacts, even
// before the TTL expires.
func Key(model, version, artifact string) string {
	return model + ":" + version + ":" + artifact
}
