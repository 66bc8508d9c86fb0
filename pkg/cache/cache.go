// Package cache provides content caching for generated meshes.
//
// Growing a large mesh is CPU-bound and fully deterministic, so the
// binary-STL encoding of the generated triangles can be cached keyed by
// the base mesh's content hash plus the full growth configuration.
//
// Backends:
//   - FileCache: directory-backed, for CLI usage
//   - RedisCache: shared cache for multi-instance serve deployments
//   - NullCache: disables caching
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with an optional TTL (0 means no expiry).
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// MeshKeyOpts are the growth parameters that make up a mesh cache key.
// Every field that influences the generated triangles must appear here;
// a missing field would alias distinct outputs under one key.
type MeshKeyOpts struct {
	Seed         uint64
	Depth        int
	Children     int
	ChildScale   float32
	Strategy     string
	MaxTriangles int
}

// Keyer generates cache keys.
type Keyer interface {
	// MeshKey generates a key for a grown mesh from the base mesh's
	// content hash and the growth parameters.
	MeshKey(meshHash string, opts MeshKeyOpts) string
}

// DefaultKeyer generates keys by hashing the key components.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// MeshKey implements Keyer.
func (k *DefaultKeyer) MeshKey(meshHash string, opts MeshKeyOpts) string {
	return hashKey("mesh", meshHash, opts)
}
