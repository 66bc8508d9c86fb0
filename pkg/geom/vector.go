// Package geom provides the single-precision geometry kernel for sprout:
// 3D vectors, affine 4x4 transforms, triangles, and the local surface
// frame used to anchor growths onto a parent triangle.
//
// All arithmetic is float32. Scalar math goes through chewxy/math32 to
// avoid float64 round trips.
package geom

import "github.com/chewxy/math32"

// Vector3 is a 3-component float32 vector, used both as a position and
// as a free vector depending on the operation.
type Vector3 struct {
	X, Y, Z float32
}

// Vec3 returns a new Vector3 with the given components.
func Vec3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Add returns the component-wise sum a + b.
func (a Vector3) Add(b Vector3) Vector3 {
	return Vector3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns the component-wise difference a - b.
func (a Vector3) Sub(b Vector3) Vector3 {
	return Vector3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// MulScalar returns the vector scaled by s.
func (a Vector3) MulScalar(s float32) Vector3 {
	return Vector3{a.X * s, a.Y * s, a.Z * s}
}

// Dot returns the dot product a · b.
func (a Vector3) Dot(b Vector3) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the cross product a × b.
func (a Vector3) Cross(b Vector3) Vector3 {
	return Vector3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// LengthSquared returns the squared euclidean length.
func (a Vector3) LengthSquared() float32 {
	return a.X*a.X + a.Y*a.Y + a.Z*a.Z
}

// Length returns the euclidean length.
func (a Vector3) Length() float32 {
	return math32.Sqrt(a.LengthSquared())
}

// Normal returns the unit vector in the direction of a, or the zero
// vector when a has zero length. Callers that must distinguish the
// degenerate case check LengthSquared first (see Triangle.Normal).
func (a Vector3) Normal() Vector3 {
	lenSq := a.LengthSquared()
	if lenSq > 0 {
		return a.MulScalar(1 / math32.Sqrt(lenSq))
	}
	return Vector3{}
}

// Distance returns the euclidean distance between a and b.
func (a Vector3) Distance(b Vector3) float32 {
	return a.Sub(b).Length()
}
