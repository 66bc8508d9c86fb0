// Package pipeline provides the core mesh-growing pipeline for sprout.
//
// This package implements the complete load → grow → save flow shared
// by the CLI and the HTTP API. By centralizing this logic we ensure
// consistent behavior (and consistent caching) across entry points.
//
// # Architecture
//
// The pipeline has two stages around an immutable base mesh:
//
//  1. Grow: run the recursive growth engine over the base mesh
//  2. Assemble: concatenate base mesh + generated triangles, in that
//     fixed order
//
// Reading the base mesh from a stream and serializing the result are
// the caller's business (pkg/stl); the pipeline works on in-memory
// meshes only.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, base, pipeline.Options{
//	    Config: growth.Config{Depth: 3, Children: 3},
//	})
//	if err != nil {
//	    return err
//	}
//	stl.Write(w, result.Mesh)
package pipeline

import (
	"time"

	"github.com/mossworks/sprout/pkg/growth"
	"github.com/mossworks/sprout/pkg/mesh"
)

// DefaultCacheTTL is how long grown meshes stay cached. Generation is
// deterministic, so entries never go stale; the TTL only bounds disk
// and redis usage.
const DefaultCacheTTL = 7 * 24 * time.Hour

// Options control a pipeline run.
type Options struct {
	// Config holds the growth parameters. Unset fields are defaulted
	// by ValidateAndSetDefaults.
	Config growth.Config

	// Refresh bypasses the cache on read (the result is still stored).
	Refresh bool
}

// ValidateAndSetDefaults validates the options and fills defaults.
func (o *Options) ValidateAndSetDefaults() error {
	return o.Config.ValidateAndSetDefaults()
}

// Stats records timing and size information for a run.
type Stats struct {
	// GrowTime is the duration of the growth stage, including cache
	// lookup.
	GrowTime time.Duration

	// BaseTriangles is the triangle count of the input mesh.
	BaseTriangles int

	// GrownTriangles is the number of generated triangles.
	GrownTriangles int
}

// Result is the outcome of a pipeline run.
type Result struct {
	// Mesh is the final output: base mesh followed by all generated
	// growth triangles in traversal order.
	Mesh mesh.Mesh

	// RunID uniquely identifies this run in logs.
	RunID string

	// Stats holds timing and size data.
	Stats Stats

	// CacheHit reports whether the growth stage was served from cache.
	CacheHit bool
}
