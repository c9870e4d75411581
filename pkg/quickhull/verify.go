package quickhull

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Verify checks that the hull is a closed triangle mesh: every half-edge has
// a twin on a retained face that points back to it and runs the other way,
// every face ring closes after exactly 3 steps and every edge of a ring
// belongs to that face.
func (h *Hull) Verify() error {
	m := h.mesh
	var errs error

	for _, f := range h.faces {
		face := m.faces[f]
		if face.Mark != Visible {
			errs = multierr.Append(errs, errors.Errorf("face %d is %s", f, face.Mark))
			continue
		}

		start := face.edge
		e := start
		steps := 0
		for {
			edge := m.edges[e]
			if edge.face != f {
				errs = multierr.Append(errs, errors.Errorf("edge %d of face %d points to face %d", e, f, edge.face))
			}
			if m.edges[edge.next].prev != e {
				errs = multierr.Append(errs, errors.Errorf("edge %d and its next %d don't refer to each other", e, edge.next))
			}

			switch {
			case !edge.twin.Valid():
				errs = multierr.Append(errs, errors.Errorf("edge %d of face %d has no twin", e, f))
			case m.edges[edge.twin].twin != e:
				errs = multierr.Append(errs, errors.Errorf("edge %d and its twin %d don't refer to each other", e, edge.twin))
			case m.faces[m.edges[edge.twin].face].Mark != Visible:
				errs = multierr.Append(errs, errors.Errorf("twin %d of edge %d lies on a deleted face", edge.twin, e))
			case m.head(edge.twin) != m.tail(e) || m.tail(edge.twin) != m.head(e):
				errs = multierr.Append(errs, errors.Errorf("edge %d and its twin %d don't share endpoints", e, edge.twin))
			}

			steps++
			e = edge.next
			if e == start || steps > 3 {
				break
			}
		}
		if steps != 3 || e != start {
			errs = multierr.Append(errs, errors.Errorf("face %d is not a triangle", f))
		}
	}

	if v, e, f := h.VertexCount(), h.EdgeCount(), h.FaceCount(); v-e+f != 2 {
		errs = multierr.Append(errs, errors.Errorf("euler characteristic V-E+F = %d-%d+%d != 2", v, e, f))
	}
	return errs
}
