package quickhull

import "github.com/golang/geo/r3"

// horizonFrame is one face being crossed by the horizon walk: the next edge
// to look at and how many edges of the face are left.
type horizonFrame struct {
	edge      EdgeID
	remaining int
}

// computeHorizon collects into qh.horizon, in CCW order, the edges that
// separate faces seeing eyePoint from faces that do not. Every visible face
// met on the way is deleted and its outside points are moved to the
// unassigned list.
//
// The walk is depth first. A face entered through crossEdge continues with
// crossEdge.next and ends right before crossEdge, which yields a closed
// chain. An explicit stack keeps the depth off the call stack.
func (qh *QuickHull) computeHorizon(eyePoint r3.Vector, start FaceID) {
	m := &qh.mesh
	qh.horizon = qh.horizon[:0]
	qh.stack = qh.stack[:0]

	qh.enterFace(start, noEdge)

	for len(qh.stack) > 0 {
		top := &qh.stack[len(qh.stack)-1]
		if top.remaining == 0 {
			qh.stack = qh.stack[:len(qh.stack)-1]
			continue
		}

		edge := top.edge
		top.edge = m.edges[edge].next
		top.remaining--

		twin := m.edges[edge].twin
		opposite := m.edges[twin].face
		if m.faces[opposite].Mark != Visible {
			continue
		}

		if m.distanceToPoint(opposite, eyePoint) > qh.tolerance {
			// top is not used past this point: enterFace may grow the stack
			qh.enterFace(opposite, twin)
		} else {
			qh.horizon = append(qh.horizon, edge)
		}
	}
}

// enterFace deletes f and pushes it on the walk. crossEdge is the edge of f
// the walk came through, noEdge for the face the eye was assigned to.
func (qh *QuickHull) enterFace(f FaceID, crossEdge EdgeID) {
	m := &qh.mesh

	qh.deleteFaceVertices(f, noFace)
	m.faces[f].Mark = Deleted

	if !crossEdge.Valid() {
		qh.stack = append(qh.stack, horizonFrame{edge: m.edgeAt(f, 0), remaining: 3})
		return
	}
	// crossEdge itself was analyzed from the other side
	qh.stack = append(qh.stack, horizonFrame{edge: m.edges[crossEdge].next, remaining: 2})
}
