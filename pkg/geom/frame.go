package geom

// PlaceOnTriangle builds the placement transform that maps a unit
// object at the origin onto the triangle's local surface frame:
//
//   - local x-axis: normalize(B - A)
//   - local z-axis: the triangle normal
//   - local y-axis: z × x (right-handed; the order matters, x × z
//     would mirror every growth)
//   - origin: the triangle centroid
//
// The result is Translate(centroid) · FromBasis(x, y, z), so the
// rotation is applied before the translation. It fails with
// ErrCodeDegenerateGeometry for degenerate triangles, like Normal.
func PlaceOnTriangle(t Triangle) (Matrix4, error) {
	z, err := t.Normal()
	if err != nil {
		return Matrix4{}, err
	}
	x := t.B.Sub(t.A).Normal()
	y := z.Cross(x)
	return Translate(t.Centroid()).Mul(FromBasis(x, y, z)), nil
}
