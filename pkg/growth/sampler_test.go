package growth

import (
	"math/rand/v2"
	"testing"

	"github.com/mossworks/sprout/pkg/errors"
	"github.com/mossworks/sprout/pkg/geom"
	"github.com/mossworks/sprout/pkg/mesh"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// weightedMesh returns three triangles with relative area weights 1:1:2.
func weightedMesh() mesh.Mesh {
	return mesh.Mesh{
		geom.NewTriangle(geom.Vec3(0, 0, 0), geom.Vec3(1, 0, 0), geom.Vec3(0, 1, 0)),
		geom.NewTriangle(geom.Vec3(5, 0, 0), geom.Vec3(6, 0, 0), geom.Vec3(5, 1, 0)),
		geom.NewTriangle(geom.Vec3(0, 5, 0), geom.Vec3(2, 5, 0), geom.Vec3(0, 6, 0)),
	}
}

func TestSampleEmptyMesh(t *testing.T) {
	for _, strategy := range []Strategy{StrategyUniform, StrategyArea} {
		_, err := Sample(nil, newRNG(1), strategy)
		if err == nil {
			t.Fatalf("%v: expected error for empty mesh", strategy)
		}
		if !errors.Is(err, errors.ErrCodeEmptySelection) {
			t.Errorf("%v: error code = %v, want EMPTY_SELECTION", strategy, errors.GetCode(err))
		}
	}
}

func TestSampleDeterministic(t *testing.T) {
	m := weightedMesh()
	for _, strategy := range []Strategy{StrategyUniform, StrategyArea} {
		a, b := newRNG(7), newRNG(7)
		for i := 0; i < 100; i++ {
			ta, errA := Sample(m, a, strategy)
			tb, errB := Sample(m, b, strategy)
			if errA != nil || errB != nil {
				t.Fatalf("%v: unexpected error: %v %v", strategy, errA, errB)
			}
			if ta != tb {
				t.Fatalf("%v: draw %d diverged under identical seeds", strategy, i)
			}
		}
	}
}

// index maps a sampled triangle back to its position in m.
func index(t *testing.T, m mesh.Mesh, tri geom.Triangle) int {
	t.Helper()
	for i, candidate := range m {
		if candidate == tri {
			return i
		}
	}
	t.Fatalf("sampled triangle not in mesh: %v", tri)
	return -1
}

func TestUniformFrequencies(t *testing.T) {
	const draws = 100_000
	m := weightedMesh()
	rng := newRNG(1)

	counts := make([]int, len(m))
	for i := 0; i < draws; i++ {
		tri, err := Sample(m, rng, StrategyUniform)
		if err != nil {
			t.Fatal(err)
		}
		counts[index(t, m, tri)]++
	}

	for i, n := range counts {
		freq := float64(n) / draws
		if freq < 0.313 || freq > 0.353 {
			t.Errorf("triangle %d frequency = %.4f, want ≈ 0.333", i, freq)
		}
	}
}

func TestAreaWeightedFrequencies(t *testing.T) {
	const draws = 100_000
	m := weightedMesh()
	rng := newRNG(1)

	counts := make([]int, len(m))
	for i := 0; i < draws; i++ {
		tri, err := Sample(m, rng, StrategyArea)
		if err != nil {
			t.Fatal(err)
		}
		counts[index(t, m, tri)]++
	}

	// Weights 1:1:2 → expected frequencies 0.25, 0.25, 0.5.
	want := []float64{0.25, 0.25, 0.5}
	for i, n := range counts {
		freq := float64(n) / draws
		if freq < want[i]-0.02 || freq > want[i]+0.02 {
			t.Errorf("triangle %d frequency = %.4f, want ≈ %.2f", i, freq, want[i])
		}
	}
}

func TestPickByWeightFallback(t *testing.T) {
	// When float summation error leaves the draw unresolved after the
	// full walk, the last triangle comes back instead of a panic.
	m := weightedMesh()

	var total float32
	for _, tri := range m {
		total += tri.AreaWeight()
	}

	for _, draw := range []float32{total, total * 2} {
		if got := pickByWeight(m, draw); got != m[len(m)-1] {
			t.Errorf("pickByWeight(%v) = %v, want the last triangle", draw, got)
		}
	}
}
