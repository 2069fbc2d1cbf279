// Package cache provides pluggable byte caches for rendered diagram
// artifacts.
//
// Rendering goes through Graphviz, which dominates the cost of a compile;
// caching the rendered SVG/PNG keyed by a hash of the emitted DOT makes
// re-rendering an unchanged diagram free. Three backends are provided:
//
//   - FileCache: per-user cache directory, used by the CLI
//   - RedisCache: shared cache for the edit server
//   - NullCache: disables caching
//
// Keys are produced by a [Keyer] so every caller hashes the same inputs the
// same way.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
//
// Get returns (nil, false, nil) on a miss; errors are reserved for backend
// failures. A ttl of zero on Set means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// RenderKeyOpts are the rendering options that affect artifact bytes. Two
// renders with equal DOT but different opts must not share a cache entry.
type RenderKeyOpts struct {
	Format string // "svg" or "png"
	Scale  float64
}

// Keyer generates cache keys for the compile and render pipeline.
type Keyer interface {
	// RenderKey keys a rendered artifact by the hash of its DOT input.
	RenderKey(dotHash string, opts RenderKeyOpts) string

	// CompileKey keys emitted DOT by the hash of the source document.
	CompileKey(sourceHash string) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// RenderKey generates a key for a rendered artifact.
func (k *DefaultKeyer) RenderKey(dotHash string, opts RenderKeyOpts) string {
	return hashKey("render", dotHash, opts)
}

// CompileKey generates a key for emitted DOT text.
func (k *DefaultKeyer) CompileKey(sourceHash string) string {
	return "compile:" + sourceHash
}

var _ Keyer = (*DefaultKeyer)(nil)
