package geom

import (
	"github.com/chewxy/math32"

	"github.com/mossworks/sprout/pkg/errors"
)

// Matrix4 is a 4x4 affine transform stored row-major. Only rotation,
// uniform scale, and translation are ever composed here; the bottom row
// stays (0, 0, 0, 1).
type Matrix4 [16]float32

// Identity returns the identity transform.
func Identity() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a pure translation by v.
func Translate(v Vector3) Matrix4 {
	return Matrix4{
		1, 0, 0, v.X,
		0, 1, 0, v.Y,
		0, 0, 1, v.Z,
		0, 0, 0, 1,
	}
}

// Scale returns a uniform scale by s about the origin.
func Scale(s float32) Matrix4 {
	return Matrix4{
		s, 0, 0, 0,
		0, s, 0, 0,
		0, 0, s, 0,
		0, 0, 0, 1,
	}
}

// FromBasis returns the rotation whose columns are the basis vectors
// x, y, z. For an orthonormal right-handed basis this maps local axes
// onto the given directions.
func FromBasis(x, y, z Vector3) Matrix4 {
	return Matrix4{
		x.X, y.X, z.X, 0,
		x.Y, y.Y, z.Y, 0,
		x.Z, y.Z, z.Z, 0,
		0, 0, 0, 1,
	}
}

// Mul returns the matrix product a × b. Application is right-to-left:
// a.Mul(b).MulPoint(p) equals a.MulPoint(b.MulPoint(p)).
func (a Matrix4) Mul(b Matrix4) Matrix4 {
	var m Matrix4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// MulPoint transforms a position (homogeneous w=1) by the matrix.
func (a Matrix4) MulPoint(v Vector3) Vector3 {
	return Vector3{
		a[0]*v.X + a[1]*v.Y + a[2]*v.Z + a[3],
		a[4]*v.X + a[5]*v.Y + a[6]*v.Z + a[7],
		a[8]*v.X + a[9]*v.Y + a[10]*v.Z + a[11],
	}
}

// MulVector transforms a free direction (homogeneous w=0) by the linear
// part of the matrix, ignoring translation.
func (a Matrix4) MulVector(v Vector3) Vector3 {
	return Vector3{
		a[0]*v.X + a[1]*v.Y + a[2]*v.Z,
		a[4]*v.X + a[5]*v.Y + a[6]*v.Z,
		a[8]*v.X + a[9]*v.Y + a[10]*v.Z,
	}
}

// MulTriangle transforms each vertex as a point, preserving order.
func (a Matrix4) MulTriangle(t Triangle) Triangle {
	return Triangle{
		A: a.MulPoint(t.A),
		B: a.MulPoint(t.B),
		C: a.MulPoint(t.C),
	}
}

// Inverse returns the inverse of an affine transform by inverting the
// 3x3 linear part via its adjugate and negating the mapped translation.
// It fails with ErrCodeSingularTransform when the linear part is not
// invertible.
func (a Matrix4) Inverse() (Matrix4, error) {
	// Cofactors of the 3x3 linear part.
	c00 := a[5]*a[10] - a[6]*a[9]
	c01 := a[6]*a[8] - a[4]*a[10]
	c02 := a[4]*a[9] - a[5]*a[8]

	det := a[0]*c00 + a[1]*c01 + a[2]*c02
	if math32.Abs(det) < 1e-12 {
		return Matrix4{}, errors.New(errors.ErrCodeSingularTransform,
			"transform is not invertible (det=%g)", det)
	}
	inv := 1 / det

	var m Matrix4
	m[0] = c00 * inv
	m[1] = (a[2]*a[9] - a[1]*a[10]) * inv
	m[2] = (a[1]*a[6] - a[2]*a[5]) * inv
	m[4] = c01 * inv
	m[5] = (a[0]*a[10] - a[2]*a[8]) * inv
	m[6] = (a[2]*a[4] - a[0]*a[6]) * inv
	m[8] = c02 * inv
	m[9] = (a[1]*a[8] - a[0]*a[9]) * inv
	m[10] = (a[0]*a[5] - a[1]*a[4]) * inv
	m[15] = 1

	// Translation: -R⁻¹ · t
	t := Vector3{a[3], a[7], a[11]}
	mt := m.MulVector(t)
	m[3] = -mt.X
	m[7] = -mt.Y
	m[11] = -mt.Z
	return m, nil
}
