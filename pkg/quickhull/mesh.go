package quickhull

import (
	"sort"

	"github.com/golang/geo/r3"
	"github.com/samber/lo"
)

// Triangle is one face of the hull: three positions in CCW order seen from
// outside and the outward unit normal shared by all three.
type Triangle struct {
	Vertices [3]r3.Vector
	Normal   r3.Vector
}

// Mesh is the flat triangle list of a hull. Triangle order is unspecified,
// vertex order inside a triangle is stable.
type Mesh struct {
	Triangles []Triangle
}

// Positions returns 3 positions per triangle.
func (m Mesh) Positions() []r3.Vector {
	out := make([]r3.Vector, 0, 3*len(m.Triangles))
	for _, t := range m.Triangles {
		out = append(out, t.Vertices[:]...)
	}
	return out
}

// Normals returns the face normal once per emitted position.
func (m Mesh) Normals() []r3.Vector {
	out := make([]r3.Vector, 0, 3*len(m.Triangles))
	for _, t := range m.Triangles {
		out = append(out, t.Normal, t.Normal, t.Normal)
	}
	return out
}

// Plane is n·p = Constant with n the outward unit normal.
type Plane struct {
	Normal   r3.Vector
	Constant float64
}

// Distance is positive on the outer side.
func (p Plane) Distance(pt r3.Vector) float64 {
	return p.Normal.Dot(pt) - p.Constant
}

// Hull is the finished result of a QuickHull run.
type Hull struct {
	mesh      *dcel
	faces     []FaceID
	tolerance float64
	points    int
}

func (h *Hull) Tolerance() float64 { return h.tolerance }
func (h *Hull) FaceCount() int     { return len(h.faces) }

// EdgeCount counts undirected edges: every half-edge has a twin.
func (h *Hull) EdgeCount() int { return 3 * len(h.faces) / 2 }

func (h *Hull) VertexCount() int { return len(h.Vertices()) }

// ring calls fn for every half-edge of f, starting at its representative.
func (h *Hull) ring(f FaceID, fn func(e EdgeID)) {
	start := h.mesh.faces[f].edge
	e := start
	for {
		fn(e)
		e = h.mesh.edges[e].next
		if e == start {
			return
		}
	}
}

// Mesh walks every face of the hull and emits its triangle.
func (h *Hull) Mesh() Mesh {
	triangles := make([]Triangle, 0, len(h.faces))
	for _, f := range h.faces {
		var t Triangle
		i := 0
		h.ring(f, func(e EdgeID) {
			if i < 3 {
				t.Vertices[i] = h.mesh.head(e).Point
			}
			i++
		})
		t.Normal = h.mesh.faces[f].Normal
		triangles = append(triangles, t)
	}
	return Mesh{Triangles: triangles}
}

// Faces returns the input indices of every face, in the same order as Mesh.
func (h *Hull) Faces() [][3]int {
	out := make([][3]int, 0, len(h.faces))
	for _, f := range h.faces {
		var tri [3]int
		i := 0
		h.ring(f, func(e EdgeID) {
			if i < 3 {
				tri[i] = h.mesh.head(e).Index
			}
			i++
		})
		out = append(out, tri)
	}
	return out
}

// Vertices returns the sorted input indices of the points on the hull.
func (h *Hull) Vertices() []int {
	var all []int
	for _, tri := range h.Faces() {
		all = append(all, tri[:]...)
	}
	out := lo.Uniq(all)
	sort.Ints(out)
	return out
}

func (h *Hull) Planes() []Plane {
	return lo.Map(h.faces, func(f FaceID, _ int) Plane {
		face := h.mesh.faces[f]
		return Plane{Normal: face.Normal, Constant: face.Constant}
	})
}

// Contains reports whether p is inside the hull or within tolerance of it.
func (h *Hull) Contains(p r3.Vector) bool {
	for _, f := range h.faces {
		if h.mesh.distanceToPoint(f, p) > h.tolerance {
			return false
		}
	}
	return true
}

func (h *Hull) Area() float64 {
	return lo.SumBy(h.faces, func(f FaceID) float64 { return h.mesh.faces[f].Area })
}

// Volume sums the signed tetrahedra spanned by the origin and every face.
func (h *Hull) Volume() float64 {
	var vol float64
	for _, t := range h.Mesh().Triangles {
		a, b, c := t.Vertices[0], t.Vertices[1], t.Vertices[2]
		vol += a.Dot(b.Cross(c))
	}
	return vol / 6
}
