package quickhull

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0FACED/go-hull/pkg/logger"
)

func TestComputeTetrahedron(t *testing.T) {
	pts := tetrahedron()
	hull, err := Compute(pts)
	require.NoError(t, err)
	require.NoError(t, hull.Verify())

	assert.Equal(t, 4, hull.FaceCount())
	assert.Equal(t, 6, hull.EdgeCount())
	assert.Equal(t, []int{0, 1, 2, 3}, hull.Vertices())

	seen := make(map[int]int)
	for _, f := range hull.Faces() {
		for _, i := range f {
			seen[i]++
		}
	}
	for i := range pts {
		assert.Equal(t, 3, seen[i], "point %d", i)
	}

	assert.InDelta(t, 1.0/6.0, hull.Volume(), 1e-12)
	assert.InDelta(t, 1.5+math.Sqrt(3)/2, hull.Area(), 1e-12)
}

func TestComputeNormalsPointOutward(t *testing.T) {
	for _, tc := range []struct {
		name string
		pts  []r3.Vector
	}{
		{"tetrahedron", tetrahedron()},
		// reversed order takes the other winding branch of the initial simplex
		{"tetrahedron reversed", []r3.Vector{{X: 0, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0}}},
		{"below the plane", []r3.Vector{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0.2, Y: 0.2, Z: -1}}},
		{"cube", unitCube()},
		{"sphere", sphereCloud(7, 64, 3)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			hull, err := Compute(tc.pts)
			require.NoError(t, err)
			require.NoError(t, hull.Verify())

			var center r3.Vector
			for _, p := range tc.pts {
				center = center.Add(p)
			}
			center = center.Mul(1 / float64(len(tc.pts)))

			for _, plane := range hull.Planes() {
				assert.Less(t, plane.Distance(center), 0.0)
				assert.InDelta(t, 1.0, plane.Normal.Norm(), 1e-12)
			}
			assert.Greater(t, hull.Volume(), 0.0)
		})
	}
}

func TestComputeCube(t *testing.T) {
	pts := unitCube()
	hull, err := Compute(pts)
	require.NoError(t, err)
	require.NoError(t, hull.Verify())

	assert.Equal(t, 12, hull.FaceCount())
	assert.Equal(t, 18, hull.EdgeCount())
	assert.Equal(t, 8, hull.VertexCount())
	assert.InDelta(t, 1.0, hull.Volume(), 1e-12)
	assert.InDelta(t, 6.0, hull.Area(), 1e-12)
}

func TestComputeCubeWithInteriorPoints(t *testing.T) {
	pts := unitCube()
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		pts = append(pts, r3.Vector{X: 0.1 + 0.8*rng.Float64(), Y: 0.1 + 0.8*rng.Float64(), Z: 0.1 + 0.8*rng.Float64()})
	}

	hull, err := Compute(pts)
	require.NoError(t, err)
	require.NoError(t, hull.Verify())

	assert.Equal(t, 12, hull.FaceCount())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, hull.Vertices())
}

func TestComputeErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		pts  []r3.Vector
		err  error
	}{
		{"no points", nil, ErrInvalidInput},
		{"three points", []r3.Vector{{X: 0}, {X: 1}, {Y: 1}}, ErrInvalidInput},
		{"nan", []r3.Vector{{X: 0}, {X: 1}, {Y: 1}, {Z: math.NaN()}}, ErrInvalidInput},
		{"inf", []r3.Vector{{X: 0}, {X: 1}, {Y: math.Inf(-1)}, {Z: 1}}, ErrInvalidInput},
		{"coincident", []r3.Vector{{X: 2, Y: 2, Z: 2}, {X: 2, Y: 2, Z: 2}, {X: 2, Y: 2, Z: 2}, {X: 2, Y: 2, Z: 2}}, ErrDegenerateInput},
		{"collinear", []r3.Vector{{X: 0}, {X: 1}, {X: 2}, {X: 3}, {X: -5}}, ErrDegenerateInput},
		{"coplanar square", []r3.Vector{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}, ErrDegenerateInput},
		{"coplanar tilted", []r3.Vector{{X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}, {X: 1.0 / 3, Y: 1.0 / 3, Z: 1.0 / 3}, {X: 2, Y: -1, Z: 0}}, ErrDegenerateInput},
	} {
		t.Run(tc.name, func(t *testing.T) {
			hull, err := Compute(tc.pts)
			require.Error(t, err)
			assert.Nil(t, hull)
			assert.True(t, errors.Is(err, tc.err), "got %v", err)
			assert.Equal(t, tc.err, errors.Cause(err))
		})
	}
}

func TestComputeOnce(t *testing.T) {
	qh := New(tetrahedron())
	assert.Equal(t, -1.0, qh.Tolerance())

	_, err := qh.Compute()
	require.NoError(t, err)
	assert.Greater(t, qh.Tolerance(), 0.0)

	_, err = qh.Compute()
	assert.True(t, errors.Is(err, ErrAlreadyComputed))
}

func TestTolerance(t *testing.T) {
	pts := []r3.Vector{{X: -4, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}, {X: 0, Y: 3, Z: 0}, {X: 0, Y: -1, Z: 10}}
	hull, err := Compute(pts)
	require.NoError(t, err)
	assert.Equal(t, 3*machineEpsilon*(4+3+10), hull.Tolerance())
}

func TestComputeExtremeScales(t *testing.T) {
	for _, scale := range []float64{1e-300, 1e-200, 1e200, 1e300} {
		pts := lo.Map(tetrahedron(), func(p r3.Vector, _ int) r3.Vector { return p.Mul(scale) })
		hull, err := Compute(pts)
		require.NoError(t, err, "scale %g", scale)
		require.NoError(t, hull.Verify())

		assert.Equal(t, 4, hull.FaceCount())
		assert.Equal(t, []int{0, 1, 2, 3}, hull.Vertices())
		assert.InEpsilon(t, 3*machineEpsilon*3*scale, hull.Tolerance(), 1e-12)
		for _, tri := range hull.Mesh().Triangles {
			for _, v := range tri.Vertices {
				assert.Contains(t, pts, v)
			}
		}
		for _, p := range pts {
			for _, plane := range hull.Planes() {
				assert.LessOrEqual(t, plane.Distance(p), hull.Tolerance())
			}
		}
		assert.True(t, hull.Contains(r3.Vector{X: 0.1, Y: 0.1, Z: 0.1}.Mul(scale)))
		assert.False(t, hull.Contains(r3.Vector{X: 1, Y: 1, Z: 1}.Mul(scale)))
	}
}

func TestComputeConvexity(t *testing.T) {
	for _, tc := range []struct {
		name string
		pts  []r3.Vector
	}{
		{"sphere", sphereCloud(1, 300, 1)},
		{"large sphere", sphereCloud(2, 300, 1e6)},
		{"ball", ballCloud(3, 1000, 10)},
		{"cube with noise", append(unitCube(), ballCloud(4, 200, 0.5)...)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			hull, err := Compute(tc.pts)
			require.NoError(t, err)
			require.NoError(t, hull.Verify())

			tol := hull.Tolerance()
			for i, p := range tc.pts {
				for _, plane := range hull.Planes() {
					require.LessOrEqual(t, plane.Distance(p), tol, "point %d outside plane %v", i, plane)
				}
				assert.True(t, hull.Contains(p))
			}

			v, e, f := hull.VertexCount(), hull.EdgeCount(), hull.FaceCount()
			assert.Equal(t, 2, v-e+f)
		})
	}
}

func TestComputeSphereKeepsEveryPoint(t *testing.T) {
	pts := sphereCloud(5, 200, 2)
	hull, err := Compute(pts)
	require.NoError(t, err)

	assert.Equal(t, 200, hull.VertexCount())
	assert.Equal(t, 2*200-4, hull.FaceCount())
}

func TestComputeIdempotent(t *testing.T) {
	pts := append(sphereCloud(11, 150, 5), ballCloud(12, 150, 2)...)
	first, err := Compute(pts)
	require.NoError(t, err)

	shuffled := append([]r3.Vector(nil), pts...)
	rand.New(rand.NewSource(13)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	second, err := Compute(shuffled)
	require.NoError(t, err)

	assert.InDelta(t, first.Volume(), second.Volume(), 1e-9)
	assert.Equal(t, hullPoints(first, pts), hullPoints(second, shuffled))
	assert.Equal(t, canonicalFaces(first, pts), canonicalFaces(second, shuffled))
}

func TestComputeInteriorPointStability(t *testing.T) {
	pts := sphereCloud(21, 120, 4)
	before, err := Compute(pts)
	require.NoError(t, err)

	withInterior := append(append([]r3.Vector(nil), pts...), r3.Vector{X: 0.5, Y: -0.25, Z: 1})
	after, err := Compute(withInterior)
	require.NoError(t, err)

	assert.Equal(t, canonicalFaces(before, pts), canonicalFaces(after, withInterior))
	assert.NotContains(t, after.Vertices(), len(pts))
}

func TestComputeDuplicates(t *testing.T) {
	pts := append(unitCube(), unitCube()...)
	pts = append(pts, tetrahedron()...)

	hull, err := Compute(pts)
	require.NoError(t, err)
	require.NoError(t, hull.Verify())
	assert.Equal(t, 12, hull.FaceCount())
	assert.Equal(t, 8, hull.VertexCount())
}

func TestComputeLogs(t *testing.T) {
	log := logger.New(logger.WithoutColor())
	_, err := Compute(unitCube(), WithLogger(log))
	require.NoError(t, err)

	out := log.String()
	assert.Contains(t, out, "[qh] QuickHull started")
	assert.Contains(t, out, "[qh] initial simplex built")
	assert.Contains(t, out, "[qh] QuickHull finished")

	log.ClearLogs()
	_, err = Compute(unitCube()[:3], WithLogger(log))
	require.Error(t, err)
	assert.NotContains(t, log.String(), "[qh] QuickHull started")
}

func TestHorizonIsClosed(t *testing.T) {
	pts := append(tetrahedron(), r3.Vector{X: 1, Y: 1, Z: 1})
	qh := New(pts)
	require.NoError(t, qh.validate())
	require.NoError(t, qh.computeInitialHull())

	// (1,1,1) is farthest from the x axis and joins the simplex as v2,
	// which leaves (0,0,1) as the only point outside.
	eye := qh.nextVertexToAdd()
	require.NotNil(t, eye)
	assert.Equal(t, 3, eye.Index)

	eyeFace := eye.face
	qh.removeVertexFromFace(eye, eyeFace)
	qh.computeHorizon(eye.Point, eyeFace)

	require.NotEmpty(t, qh.horizon)
	m := &qh.mesh
	for i, e := range qh.horizon {
		next := qh.horizon[(i+1)%len(qh.horizon)]
		assert.Equal(t, m.head(e), m.tail(next), "horizon edge %d does not chain into %d", e, next)
		assert.Equal(t, Deleted, m.faces[m.edge(e).face].Mark)
		assert.Equal(t, Visible, m.faces[m.edge(m.edge(e).twin).face].Mark)
	}
}

func TestDeleteFaceVerticesAbsorbing(t *testing.T) {
	qh := New(sphereCloud(41, 60, 1))
	require.NoError(t, qh.validate())
	require.NoError(t, qh.computeInitialHull())

	from := noFace
	for _, f := range qh.faces {
		if qh.mesh.faces[f].outside != nil {
			from = f
			break
		}
	}
	require.True(t, from.Valid())

	var moved []*VertexNode
	for v := qh.mesh.faces[from].outside; v != nil && v.face == from; v = v.next {
		moved = append(moved, v)
	}
	into := qh.faces[0]
	if into == from {
		into = qh.faces[1]
	}
	before := qh.assigned.Len()

	qh.deleteFaceVertices(from, into)
	assert.Nil(t, qh.mesh.faces[from].outside)

	orphans := make(map[*VertexNode]bool)
	for _, v := range qh.unassigned.Nodes() {
		orphans[v] = true
	}
	for _, v := range moved {
		if qh.mesh.distanceToPoint(into, v.Point) > qh.tolerance {
			assert.Equal(t, into, v.face)
			assert.False(t, orphans[v])
		} else {
			assert.True(t, orphans[v], "point %d", v.Index)
		}
	}
	assert.Equal(t, before, qh.assigned.Len()+qh.unassigned.Len())
}
