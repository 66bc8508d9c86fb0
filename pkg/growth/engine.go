package growth

import (
	"math/rand/v2"

	"github.com/mossworks/sprout/pkg/errors"
	"github.com/mossworks/sprout/pkg/geom"
	"github.com/mossworks/sprout/pkg/mesh"
)

// Grow generates the growth triangles for base under cfg. The returned
// mesh contains only generated triangles; it never includes an
// untransformed copy of base itself. The caller prepends the base mesh
// to form the final output (see pipeline.Runner).
//
// For each recursion level, every child consumes one sample draw from
// the shared random source before its own recursive descent, and each
// descent completes before its sibling's draw. This ordering is part of
// the output contract: for a fixed (seed, depth, children, scale,
// strategy), two runs over the same base mesh are bit-identical.
//
// Grow fails with:
//   - ErrCodeEmptySelection when depth > 0 and base is empty
//   - ErrCodeDegenerateGeometry when a sampled triangle has no
//     well-defined surface frame
//   - ErrCodeBudgetExceeded when the generated triangle count passes
//     cfg.MaxTriangles
func Grow(base mesh.Mesh, cfg Config) (mesh.Mesh, error) {
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	g := &grower{
		base: base,
		cfg:  cfg,
		rng:  rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0xdeadbeef)),
	}
	return g.grow(cfg.Depth)
}

// grower threads the generation state through the recursion: the base
// mesh, the single random source, and the running triangle budget.
type grower struct {
	base      mesh.Mesh
	cfg       Config
	rng       *rand.Rand
	generated int
}

func (g *grower) grow(depth int) (mesh.Mesh, error) {
	if depth == 0 {
		return nil, nil
	}

	var out mesh.Mesh
	for child := 0; child < g.cfg.Children; child++ {
		parent, err := Sample(g.base, g.rng, g.cfg.Strategy)
		if err != nil {
			return nil, err
		}

		placement, err := geom.PlaceOnTriangle(parent)
		if err != nil {
			return nil, err
		}
		placement = placement.Mul(geom.Scale(g.cfg.ChildScale))

		if err := g.spend(len(g.base)); err != nil {
			return nil, err
		}
		out = append(out, g.base.Transformed(placement)...)

		// Descendants are generated in the child's own frame, then
		// re-anchored under the same placement. Their budget is spent
		// inside the recursive call.
		sub, err := g.grow(depth - 1)
		if err != nil {
			return nil, err
		}
		out = append(out, sub.Transformed(placement)...)
	}
	return out, nil
}

// spend accounts n freshly generated triangles against the budget.
func (g *grower) spend(n int) error {
	g.generated += n
	if g.cfg.MaxTriangles > 0 && g.generated > g.cfg.MaxTriangles {
		return errors.New(errors.ErrCodeBudgetExceeded,
			"generated %d triangles, budget is %d (depth=%d children=%d over %d base triangles)",
			g.generated, g.cfg.MaxTriangles, g.cfg.Depth, g.cfg.Children, len(g.base))
	}
	return nil
}
