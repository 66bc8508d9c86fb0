package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/mossworks/sprout/pkg/errors"
	"github.com/mossworks/sprout/pkg/geom"
	"github.com/mossworks/sprout/pkg/mesh"
)

// Write encodes m as binary STL. Each facet normal is recomputed from
// the triangle's vertices via the geometry kernel; vertices are written
// in stored order and triangles in mesh order, so the emitted ordering
// is exactly the orchestrator's concatenation order.
//
// Write fails with ErrCodeDegenerateGeometry if any triangle has an
// undefined normal, and surfaces stream write failures immediately.
func Write(w io.Writer, m mesh.Mesh) error {
	bw := bufio.NewWriter(w)

	var header [headerSize]byte
	copy(header[:], "sprout binary STL")
	if _, err := bw.Write(header[:]); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write header")
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(m))); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write triangle count")
	}

	var rec [recordSize]byte
	for i, t := range m {
		n, err := t.Normal()
		if err != nil {
			return fmt.Errorf("triangle %d: %w", i, err)
		}
		putVector(rec[0:], n)
		putVector(rec[12:], t.A)
		putVector(rec[24:], t.B)
		putVector(rec[36:], t.C)
		rec[48], rec[49] = 0, 0 // attribute byte count
		if _, err := bw.Write(rec[:]); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write triangle %d", i)
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "flush output")
	}
	return nil
}

// Export writes m to an STL file at path.
func Export(m mesh.Mesh, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := Write(f, m); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

func putVector(b []byte, v geom.Vector3) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(v.Z))
}
