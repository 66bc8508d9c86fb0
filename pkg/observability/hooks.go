// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about growth runs and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetGrowthHooks(&myGrowthHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Growth().OnGrowStart(ctx, baseTriangles, depth)
//	// ... grow the mesh ...
//	observability.Growth().OnGrowComplete(ctx, baseTriangles, grownTriangles, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// GrowthHooks receives events from growth pipeline runs.
type GrowthHooks interface {
	// OnGrowStart records the beginning of a growth run.
	OnGrowStart(ctx context.Context, baseTriangles, depth int)

	// OnGrowComplete records the end of a growth run, whether served
	// from cache or freshly generated. grownTriangles is zero when err
	// is non-nil.
	OnGrowComplete(ctx context.Context, baseTriangles, grownTriangles int, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopGrowthHooks is a no-op implementation of GrowthHooks.
type NoopGrowthHooks struct{}

func (NoopGrowthHooks) OnGrowStart(context.Context, int, int)                          {}
func (NoopGrowthHooks) OnGrowComplete(context.Context, int, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	growthHooks GrowthHooks = NoopGrowthHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetGrowthHooks registers custom growth hooks.
// This should be called once at application startup before any pipeline runs.
func SetGrowthHooks(h GrowthHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		growthHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Growth returns the registered growth hooks.
func Growth() GrowthHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return growthHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	growthHooks = NoopGrowthHooks{}
	cacheHooks = NoopCacheHooks{}
}
