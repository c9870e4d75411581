// Package objexport writes hull meshes as Wavefront OBJ text.
//
// Geometry is not indexed: every triangle emits its own three vertices and
// three normals, and face i references vertices 3i+1..3i+3 with the normal of
// the same index.
package objexport

import (
	"bufio"
	"bytes"
	"io"
	"strconv"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/0x0FACED/go-hull/pkg/quickhull"
)

const DefaultName = "hull"

// Write emits one object named name. An empty name falls back to
// DefaultName.
func Write(w io.Writer, name string, mesh quickhull.Mesh) error {
	if name == "" {
		name = DefaultName
	}

	bw := bufio.NewWriter(w)
	bw.WriteString("o " + name + "\n")

	for _, p := range mesh.Positions() {
		writeVector(bw, "v", p)
	}
	for _, n := range mesh.Normals() {
		writeVector(bw, "vn", n)
	}

	for i := range mesh.Triangles {
		bw.WriteString("f")
		for k := 1; k <= 3; k++ {
			idx := strconv.Itoa(3*i + k)
			bw.WriteString(" " + idx + "//" + idx)
		}
		bw.WriteByte('\n')
	}

	return errors.Wrap(bw.Flush(), "write obj")
}

// Marshal returns the OBJ text of mesh.
func Marshal(name string, mesh quickhull.Mesh) []byte {
	var buf bytes.Buffer
	// bytes.Buffer never fails
	_ = Write(&buf, name, mesh)
	return buf.Bytes()
}

func writeVector(w *bufio.Writer, tag string, v r3.Vector) {
	w.WriteString(tag)
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		w.WriteByte(' ')
		w.WriteString(strconv.FormatFloat(c, 'g', -1, 64))
	}
	w.WriteByte('\n')
}
