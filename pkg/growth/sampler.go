package growth

import (
	"math/rand/v2"

	"github.com/mossworks/sprout/pkg/errors"
	"github.com/mossworks/sprout/pkg/geom"
	"github.com/mossworks/sprout/pkg/mesh"
)

// Sample draws one triangle from m using the given strategy and random
// source. Sampling from an empty mesh is a caller precondition
// violation, not a recoverable empty result, and fails with
// ErrCodeEmptySelection.
//
// Each call consumes exactly one draw from rng regardless of strategy,
// keeping the draw sequence stable across strategies.
func Sample(m mesh.Mesh, rng *rand.Rand, strategy Strategy) (geom.Triangle, error) {
	if len(m) == 0 {
		return geom.Triangle{}, errors.New(errors.ErrCodeEmptySelection,
			"cannot sample a triangle from an empty mesh")
	}
	switch strategy {
	case StrategyUniform:
		return m[rng.IntN(len(m))], nil
	case StrategyArea:
		return sampleArea(m, rng), nil
	default:
		return geom.Triangle{}, errors.New(errors.ErrCodeInvalidStrategy,
			"unknown sampling strategy %d", strategy)
	}
}

// sampleArea walks the mesh accumulating area weights until the running
// sum exceeds a uniform draw in [0, total). Floating-point summation
// error can leave the draw unresolved after the full walk; in that case
// the last triangle is returned. That fallback is a documented part of
// the contract, not an error.
func sampleArea(m mesh.Mesh, rng *rand.Rand) geom.Triangle {
	var total float32
	for _, t := range m {
		total += t.AreaWeight()
	}
	return pickByWeight(m, rng.Float32()*total)
}

// pickByWeight resolves draw against the running sum of area weights.
// A draw at or above the accumulated total falls through to the last
// triangle.
func pickByWeight(m mesh.Mesh, draw float32) geom.Triangle {
	var acc float32
	for _, t := range m {
		acc += t.AreaWeight()
		if draw < acc {
			return t
		}
	}
	return m[len(m)-1]
}
