package geom

import (
	"github.com/chewxy/math32"

	"github.com/mossworks/sprout/pkg/errors"
)

// Triangle is an ordered triple of vertices. The order defines the
// winding (and therefore the normal direction) and the local frame's
// origin edge A→B; it is preserved through transforms.
type Triangle struct {
	A, B, C Vector3
}

// NewTriangle returns a triangle with the given vertices.
func NewTriangle(a, b, c Vector3) Triangle {
	return Triangle{A: a, B: b, C: c}
}

// Normal returns the unit normal normalize(cross(B-A, C-A)).
// It fails with ErrCodeDegenerateGeometry when the cross product has
// zero magnitude (colinear or coincident vertices), rather than letting
// NaN propagate into downstream transforms.
func (t Triangle) Normal() (Vector3, error) {
	nv := t.B.Sub(t.A).Cross(t.C.Sub(t.A))
	lenSq := nv.LengthSquared()
	if lenSq == 0 {
		return Vector3{}, errors.New(errors.ErrCodeDegenerateGeometry,
			"triangle has zero-magnitude normal: %v %v %v", t.A, t.B, t.C)
	}
	return nv.MulScalar(1 / math32.Sqrt(lenSq)), nil
}

// AreaWeight returns |cross(B-A, C-A)|, which is twice the triangle's
// area. The factor of two is not divided out; the value is only ever
// used for relative weighting during sampling.
func (t Triangle) AreaWeight() float32 {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A)).Length()
}

// Area returns the true surface area of the triangle.
func (t Triangle) Area() float32 {
	return t.AreaWeight() / 2
}

// Centroid returns the triangle's centroid (A+B+C)/3.
func (t Triangle) Centroid() Vector3 {
	return t.A.Add(t.B).Add(t.C).MulScalar(1.0 / 3.0)
}
