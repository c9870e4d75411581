package quickhull

import "github.com/golang/geo/r3"

// FaceID and EdgeID are handles into the pools of a dcel.
type (
	FaceID int
	EdgeID int
)

const (
	noFace FaceID = -1
	noEdge EdgeID = -1
)

func (f FaceID) Valid() bool { return f >= 0 }
func (e EdgeID) Valid() bool { return e >= 0 }

// Mark tells whether a face still belongs to the hull.
type Mark uint8

const (
	Visible Mark = iota
	Deleted
)

func (m Mark) String() string {
	if m == Deleted {
		return "deleted"
	}
	return "visible"
}

// HalfEdge points to its head vertex. The tail is the head of prev.
type HalfEdge struct {
	vertex *VertexNode
	face   FaceID
	next   EdgeID
	prev   EdgeID
	twin   EdgeID
}

// Face is a triangle of the hull with an outward unit normal.
type Face struct {
	Normal   r3.Vector
	Centroid r3.Vector
	// Constant is the signed distance of the face plane from the origin.
	Constant float64
	Area     float64
	Mark     Mark

	edge    EdgeID
	outside *VertexNode
}

// dcel owns every face and half-edge created during one computation.
// Nothing is freed: deleted faces stay in the pool as tombstones so that
// handles remain stable.
type dcel struct {
	faces []Face
	edges []HalfEdge
}

func (d *dcel) face(f FaceID) *Face       { return &d.faces[f] }
func (d *dcel) edge(e EdgeID) *HalfEdge   { return &d.edges[e] }
func (d *dcel) head(e EdgeID) *VertexNode { return d.edges[e].vertex }

func (d *dcel) tail(e EdgeID) *VertexNode {
	prev := d.edges[e].prev
	if !prev.Valid() {
		return nil
	}
	return d.edges[prev].vertex
}

// createFace builds the triangle a, b, c. Vertices must be passed in
// counter-clockwise order seen from outside.
func (d *dcel) createFace(a, b, c *VertexNode) FaceID {
	f := FaceID(len(d.faces))
	e0 := EdgeID(len(d.edges))
	e1, e2 := e0+1, e0+2

	d.edges = append(d.edges,
		HalfEdge{vertex: a, face: f, next: e1, prev: e2, twin: noEdge},
		HalfEdge{vertex: b, face: f, next: e2, prev: e0, twin: noEdge},
		HalfEdge{vertex: c, face: f, next: e0, prev: e1, twin: noEdge},
	)

	cross := b.Point.Sub(a.Point).Cross(c.Point.Sub(b.Point))
	centroid := a.Point.Add(b.Point).Add(c.Point).Mul(1.0 / 3.0)
	normal := cross.Normalize()

	d.faces = append(d.faces, Face{
		Normal:   normal,
		Centroid: centroid,
		Constant: normal.Dot(centroid),
		Area:     cross.Norm() / 2,
		Mark:     Visible,
		edge:     e0,
		outside:  nil,
	})
	return f
}

// edgeAt walks i steps from the representative edge of f, forward for i > 0
// and backward for i < 0.
func (d *dcel) edgeAt(f FaceID, i int) EdgeID {
	e := d.faces[f].edge
	for ; i > 0; i-- {
		e = d.edges[e].next
	}
	for ; i < 0; i++ {
		e = d.edges[e].prev
	}
	return e
}

func (d *dcel) setTwin(a, b EdgeID) {
	d.edges[a].twin = b
	d.edges[b].twin = a
}

// distanceToPoint is positive when p lies outside the face plane.
func (d *dcel) distanceToPoint(f FaceID, p r3.Vector) float64 {
	face := &d.faces[f]
	return face.Normal.Dot(p) - face.Constant
}
