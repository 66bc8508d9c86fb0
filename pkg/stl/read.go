// Package stl reads and writes triangulated meshes in STL format.
//
// Reading consumes the entire stream into memory before parsing and
// auto-detects ASCII versus binary encoding. Writing always emits
// binary STL and recomputes each facet normal from the triangle's
// vertices; the normal field of the input file is never echoed back.
//
// Malformed or truncated input fails the whole read with
// ErrCodeInvalidFormat. No partial mesh is ever produced.
package stl

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mossworks/sprout/pkg/errors"
	"github.com/mossworks/sprout/pkg/geom"
	"github.com/mossworks/sprout/pkg/mesh"
)

const (
	headerSize = 80 // binary STL header, content ignored
	recordSize = 50 // normal + 3 vertices (12 floats) + attribute count
)

// Read decodes an STL mesh from r. The whole stream is buffered before
// parsing, matching the collaborator contract of consuming a full byte
// buffer. Both binary and ASCII encodings are accepted.
func Read(r io.Reader) (mesh.Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read stream")
	}
	if isASCII(data) {
		return parseASCII(data)
	}
	return parseBinary(data)
}

// Import reads an STL file at path.
func Import(path string) (mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// isASCII reports whether data looks like an ASCII STL. A binary file
// may legally begin with "solid" in its header, so the check also
// requires a "facet" token in the body.
func isASCII(data []byte) bool {
	head := bytes.TrimLeft(data, " \t\r\n")
	if !bytes.HasPrefix(head, []byte("solid")) {
		return false
	}
	return bytes.Contains(data, []byte("facet"))
}

func parseBinary(data []byte) (mesh.Mesh, error) {
	if len(data) < headerSize+4 {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"binary STL too short: %d bytes", len(data))
	}
	count := binary.LittleEndian.Uint32(data[headerSize:])
	want := headerSize + 4 + int(count)*recordSize
	if len(data) < want {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"truncated binary STL: %d triangles declared, %d bytes present (need %d)",
			count, len(data), want)
	}

	m := make(mesh.Mesh, count)
	off := headerSize + 4
	for i := range m {
		rec := data[off : off+recordSize]
		// Skip the stored normal (first 12 bytes); it is recomputed on write.
		m[i] = geom.Triangle{
			A: vertexAt(rec, 12),
			B: vertexAt(rec, 24),
			C: vertexAt(rec, 36),
		}
		off += recordSize
	}
	return m, nil
}

func vertexAt(rec []byte, off int) geom.Vector3 {
	return geom.Vector3{
		X: math.Float32frombits(binary.LittleEndian.Uint32(rec[off:])),
		Y: math.Float32frombits(binary.LittleEndian.Uint32(rec[off+4:])),
		Z: math.Float32frombits(binary.LittleEndian.Uint32(rec[off+8:])),
	}
}

func parseASCII(data []byte) (mesh.Mesh, error) {
	var (
		m     mesh.Mesh
		verts []geom.Vector3
	)
	for ln, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0] != "vertex" {
			continue
		}
		if len(fields) != 4 {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"line %d: vertex needs 3 coordinates, got %d", ln+1, len(fields)-1)
		}
		var v geom.Vector3
		for i, dst := range []*float32{&v.X, &v.Y, &v.Z} {
			f, err := strconv.ParseFloat(fields[i+1], 32)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err,
					"line %d: bad coordinate %q", ln+1, fields[i+1])
			}
			*dst = float32(f)
		}
		verts = append(verts, v)
		if len(verts) == 3 {
			m = append(m, geom.NewTriangle(verts[0], verts[1], verts[2]))
			verts = verts[:0]
		}
	}
	if len(verts) != 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"dangling vertices: facet with %d of 3 vertices", len(verts))
	}
	return m, nil
}
