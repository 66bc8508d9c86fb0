package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mossworks/sprout/pkg/cache"
	"github.com/mossworks/sprout/pkg/growth"
	"github.com/mossworks/sprout/pkg/mesh"
	"github.com/mossworks/sprout/pkg/observability"
	"github.com/mossworks/sprout/pkg/stl"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store run results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete grow → assemble pipeline with caching.
// The returned mesh is always base followed by the generated growth
// triangles in traversal order; no triangle of base is ever removed.
func (r *Runner) Execute(ctx context.Context, base mesh.Mesh, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		RunID: uuid.NewString(),
	}
	result.Stats.BaseTriangles = len(base)
	logger := r.Logger.With("run", result.RunID)

	observability.Growth().OnGrowStart(ctx, len(base), opts.Config.Depth)
	growStart := time.Now()
	grown, hit, err := r.growWithCache(ctx, base, opts)
	observability.Growth().OnGrowComplete(ctx, len(base), len(grown), time.Since(growStart), err)
	if err != nil {
		return nil, fmt.Errorf("grow: %w", err)
	}
	result.Stats.GrowTime = time.Since(growStart)
	result.Stats.GrownTriangles = len(grown)
	result.CacheHit = hit

	logger.Info("generated growths",
		"base", len(base),
		"grown", len(grown),
		"cached", hit,
		"duration", result.Stats.GrowTime)

	result.Mesh = base.Concat(grown)
	return result, nil
}

// growWithCache runs the growth engine, serving the generated triangle
// set from cache when possible. The cached value is the binary-STL
// encoding of the generated triangles only (never the base mesh), so a
// hit and a fresh run assemble byte-identical outputs.
func (r *Runner) growWithCache(ctx context.Context, base mesh.Mesh, opts Options) (mesh.Mesh, bool, error) {
	key := r.Keyer.MeshKey(base.Hash(), meshKeyOpts(opts.Config))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			grown, err := stl.Read(bytes.NewReader(data))
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "mesh")
				return grown, true, nil
			}
			// Corrupt entry: drop it and regenerate.
			r.Logger.Warn("discarding corrupt cache entry", "key", key, "err", err)
			_ = r.Cache.Delete(ctx, key)
		}
		observability.Cache().OnCacheMiss(ctx, "mesh")
	}

	grown, err := growth.Grow(base, opts.Config)
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := stl.Write(&buf, grown); err == nil {
		if err := r.Cache.Set(ctx, key, buf.Bytes(), DefaultCacheTTL); err != nil {
			r.Logger.Debug("cache store failed", "key", key, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "mesh", buf.Len())
		}
	}

	return grown, false, nil
}

// meshKeyOpts converts a growth config into cache key options. Every
// config field that influences output must be represented.
func meshKeyOpts(cfg growth.Config) cache.MeshKeyOpts {
	return cache.MeshKeyOpts{
		Seed:         cfg.Seed,
		Depth:        cfg.Depth,
		Children:     cfg.Children,
		ChildScale:   cfg.ChildScale,
		Strategy:     cfg.Strategy.String(),
		MaxTriangles: cfg.MaxTriangles,
	}
}
