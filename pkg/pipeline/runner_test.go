package pipeline

import (
	"context"
	"reflect"
	"testing"

	"github.com/mossworks/sprout/pkg/cache"
	"github.com/mossworks/sprout/pkg/geom"
	"github.com/mossworks/sprout/pkg/growth"
	"github.com/mossworks/sprout/pkg/mesh"
)

// unitSquare is two coplanar triangles in the z=0 plane.
func unitSquare() mesh.Mesh {
	return mesh.Mesh{
		geom.NewTriangle(geom.Vec3(0, 0, 0), geom.Vec3(1, 0, 0), geom.Vec3(1, 1, 0)),
		geom.NewTriangle(geom.Vec3(0, 0, 0), geom.Vec3(1, 1, 0), geom.Vec3(0, 1, 0)),
	}
}

func testOptions() Options {
	return Options{
		Config: growth.Config{
			Depth:      2,
			Children:   2,
			ChildScale: 0.5,
		},
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	base := unitSquare()

	result, err := r.Execute(context.Background(), base, testOptions())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID is empty")
	}
	if result.CacheHit {
		t.Error("CacheHit = true with null cache")
	}
	if result.Stats.BaseTriangles != len(base) {
		t.Errorf("BaseTriangles = %d, want %d", result.Stats.BaseTriangles, len(base))
	}
	if result.Stats.GrownTriangles == 0 {
		t.Error("GrownTriangles = 0, expected growth at depth 2")
	}
	if len(result.Mesh) != len(base)+result.Stats.GrownTriangles {
		t.Errorf("output has %d triangles, want %d", len(result.Mesh), len(base)+result.Stats.GrownTriangles)
	}

	// The base mesh leads the output unchanged.
	if !reflect.DeepEqual(result.Mesh[:len(base)], base) {
		t.Error("output does not start with the base mesh")
	}
}

func TestExecuteDeterministic(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	base := unitSquare()

	a, err := r.Execute(context.Background(), base, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Execute(context.Background(), base, testOptions())
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(a.Mesh, b.Mesh) {
		t.Error("identical runs produced different meshes")
	}
	if a.RunID == b.RunID {
		t.Error("distinct runs share a RunID")
	}
}

func TestExecuteCacheHit(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	r := NewRunner(c, nil, nil)
	base := unitSquare()

	first, err := r.Execute(context.Background(), base, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit {
		t.Error("first run reported a cache hit")
	}

	second, err := r.Execute(context.Background(), base, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second run missed the cache")
	}
	if !reflect.DeepEqual(first.Mesh, second.Mesh) {
		t.Error("cached run produced a different mesh")
	}
}

func TestExecuteRefresh(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	r := NewRunner(c, nil, nil)
	base := unitSquare()

	if _, err := r.Execute(context.Background(), base, testOptions()); err != nil {
		t.Fatal(err)
	}

	opts := testOptions()
	opts.Refresh = true
	result, err := r.Execute(context.Background(), base, opts)
	if err != nil {
		t.Fatal(err)
	}
	if result.CacheHit {
		t.Error("refresh run served from cache")
	}
}

func TestExecuteDistinctConfigsMiss(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	r := NewRunner(c, nil, nil)
	base := unitSquare()

	if _, err := r.Execute(context.Background(), base, testOptions()); err != nil {
		t.Fatal(err)
	}

	opts := testOptions()
	opts.Config = opts.Config.WithSeed(7)
	result, err := r.Execute(context.Background(), base, opts)
	if err != nil {
		t.Fatal(err)
	}
	if result.CacheHit {
		t.Error("different seed served from cache")
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	opts := testOptions()
	opts.Config.Depth = -1
	if _, err := r.Execute(context.Background(), unitSquare(), opts); err == nil {
		t.Error("negative depth accepted")
	}
}
