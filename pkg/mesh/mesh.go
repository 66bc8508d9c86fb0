// Package mesh defines the triangle mesh model shared by the STL codec,
// the growth engine, and the pipeline.
//
// A Mesh is an ordered sequence of triangles. Ordering matters only in
// that it defines deterministic indexing for sampling: under a fixed
// seed, two meshes with identical triangles in different order can
// diverge in generated output.
package mesh

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/mossworks/sprout/pkg/geom"
)

// Mesh is an ordered sequence of triangles describing a surface.
type Mesh []geom.Triangle

// Transformed returns a new mesh with every vertex transformed as a
// point by m, preserving triangle order and winding.
func (s Mesh) Transformed(m geom.Matrix4) Mesh {
	if len(s) == 0 {
		return nil
	}
	out := make(Mesh, len(s))
	for i, t := range s {
		out[i] = m.MulTriangle(t)
	}
	return out
}

// Concat returns a new mesh holding s followed by more, in order.
func (s Mesh) Concat(more Mesh) Mesh {
	out := make(Mesh, 0, len(s)+len(more))
	out = append(out, s...)
	return append(out, more...)
}

// SurfaceArea returns the total surface area of the mesh.
func (s Mesh) SurfaceArea() float64 {
	var total float64
	for _, t := range s {
		total += float64(t.Area())
	}
	return total
}

// Bounds returns the axis-aligned bounding box of the mesh as
// (min, max). For an empty mesh both corners are zero.
func (s Mesh) Bounds() (geom.Vector3, geom.Vector3) {
	if len(s) == 0 {
		return geom.Vector3{}, geom.Vector3{}
	}
	lo := s[0].A
	hi := s[0].A
	for _, t := range s {
		for _, v := range [3]geom.Vector3{t.A, t.B, t.C} {
			lo.X = min(lo.X, v.X)
			lo.Y = min(lo.Y, v.Y)
			lo.Z = min(lo.Z, v.Z)
			hi.X = max(hi.X, v.X)
			hi.Y = max(hi.Y, v.Y)
			hi.Z = max(hi.Z, v.Z)
		}
	}
	return lo, hi
}

// Hash returns a hex SHA-256 digest of the mesh's vertex data in
// storage order. Two meshes hash equal iff they are bit-identical,
// which makes the digest usable as a cache key component.
func (s Mesh) Hash() string {
	h := sha256.New()
	var buf [4]byte
	for _, t := range s {
		for _, v := range [3]geom.Vector3{t.A, t.B, t.C} {
			for _, f := range [3]float32{v.X, v.Y, v.Z} {
				binary.LittleEndian.PutUint32(buf[:], math.Float32bits(f))
				h.Write(buf[:])
			}
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
