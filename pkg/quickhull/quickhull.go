package quickhull

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/0x0FACED/go-hull/pkg/logger"
)

// machineEpsilon is the gap between 1 and the next float64.
const machineEpsilon = 0x1p-52

type state uint8

const (
	stateEmpty state = iota
	stateInitialSimplex
	stateExpanding
	stateFinalized
)

func (s state) String() string {
	switch s {
	case stateInitialSimplex:
		return "initial-simplex"
	case stateExpanding:
		return "expanding"
	case stateFinalized:
		return "finalized"
	default:
		return "empty"
	}
}

type options struct {
	logger *logger.ZapLogger
}

type Option func(*options)

func WithLogger(l *logger.ZapLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// QuickHull builds the convex hull of one point cloud. It is single use:
// New, Compute once, read the Hull, drop it.
type QuickHull struct {
	tolerance float64
	state     state

	points []r3.Vector
	// exponent of the power of two the points are divided by during the run
	exponent int

	mesh     dcel
	faces    []FaceID
	newFaces []FaceID

	// assigned holds the points some face can see, grouped by face.
	assigned VertexList
	// unassigned holds the points waiting to be reattributed during one
	// insertion step.
	unassigned VertexList

	vertices []*VertexNode
	horizon  []EdgeID
	stack    []horizonFrame

	iterations int
	logger     *logger.ZapLogger
}

func New(points []r3.Vector, opts ...Option) *QuickHull {
	o := options{logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	qh := &QuickHull{
		tolerance: -1,
		points:    points,
		vertices:  make([]*VertexNode, len(points)),
		logger:    o.logger,
	}
	for i, p := range points {
		qh.vertices[i] = newVertexNode(p, i)
	}
	return qh
}

// Compute builds the hull of the given points.
func Compute(points []r3.Vector, opts ...Option) (*Hull, error) {
	return New(points, opts...).Compute()
}

// Compute runs the algorithm. It fails with ErrInvalidInput or
// ErrDegenerateInput, and never returns a partial hull.
func (qh *QuickHull) Compute() (*Hull, error) {
	if qh.state != stateEmpty {
		return nil, errors.Wrapf(ErrAlreadyComputed, "state %s", qh.state)
	}
	if err := qh.validate(); err != nil {
		qh.state = stateFinalized
		return nil, err
	}

	qh.logger.Info("[qh] QuickHull started", zap.Int("points", len(qh.vertices)))

	qh.normalize()

	qh.state = stateInitialSimplex
	if err := qh.computeInitialHull(); err != nil {
		qh.state = stateFinalized
		qh.cleanup()
		qh.denormalize()
		qh.logger.Error("[qh] initial simplex failed", zap.Error(err))
		return nil, err
	}

	qh.state = stateExpanding
	for {
		eye := qh.nextVertexToAdd()
		if eye == nil {
			break
		}
		qh.addVertexToHull(eye)
		qh.iterations++
	}

	qh.reindexFaces()
	qh.cleanup()
	qh.denormalize()
	qh.state = stateFinalized

	qh.logger.Info("[qh] QuickHull finished",
		zap.Int("faces", len(qh.faces)),
		zap.Int("iterations", qh.iterations),
		zap.Float64("tolerance", qh.tolerance))

	return &Hull{
		mesh:      &qh.mesh,
		faces:     qh.faces,
		tolerance: qh.tolerance,
		points:    len(qh.vertices),
	}, nil
}

func (qh *QuickHull) validate() error {
	if len(qh.vertices) < 4 {
		return errors.Wrapf(ErrInvalidInput, "need at least 4 points, got %d", len(qh.vertices))
	}
	for _, v := range qh.vertices {
		p := v.Point
		if !isFinite(p.X) || !isFinite(p.Y) || !isFinite(p.Z) {
			return errors.Wrapf(ErrInvalidInput, "point %d is not finite: %v", v.Index, p)
		}
	}
	return nil
}

// normalize divides every point by a power of two so that the largest
// coordinate lies in [0.5, 1). The division is exact, and squared lengths
// of very small or very large clouds stay representable.
func (qh *QuickHull) normalize() {
	maxAbs := 0.0
	for _, v := range qh.vertices {
		p := v.Point
		maxAbs = math.Max(maxAbs, math.Max(math.Abs(p.X), math.Max(math.Abs(p.Y), math.Abs(p.Z))))
	}
	if maxAbs == 0 {
		return
	}
	_, qh.exponent = math.Frexp(maxAbs)
	for _, v := range qh.vertices {
		v.Point = ldexp(v.Point, -qh.exponent)
	}
}

// denormalize puts the input points back and returns the face planes and
// the tolerance to input units.
func (qh *QuickHull) denormalize() {
	if qh.exponent == 0 {
		return
	}
	for _, v := range qh.vertices {
		v.Point = qh.points[v.Index]
	}
	for i := range qh.mesh.faces {
		f := &qh.mesh.faces[i]
		f.Centroid = ldexp(f.Centroid, qh.exponent)
		f.Constant = math.Ldexp(f.Constant, qh.exponent)
		f.Area = math.Ldexp(f.Area, 2*qh.exponent)
	}
	if qh.tolerance > 0 {
		qh.tolerance = math.Ldexp(qh.tolerance, qh.exponent)
	}
	qh.exponent = 0
}

func ldexp(v r3.Vector, exp int) r3.Vector {
	return r3.Vector{X: math.Ldexp(v.X, exp), Y: math.Ldexp(v.Y, exp), Z: math.Ldexp(v.Z, exp)}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Tolerance is known once the extremes are computed, -1 before that.
func (qh *QuickHull) Tolerance() float64 { return qh.tolerance }

// addVertexToFace puts v at the front of the outside run of f.
func (qh *QuickHull) addVertexToFace(v *VertexNode, f FaceID) {
	v.face = f
	face := qh.mesh.face(f)

	if face.outside == nil {
		qh.assigned.Append(v)
	} else {
		qh.assigned.InsertBefore(face.outside, v)
	}
	face.outside = v
}

func (qh *QuickHull) removeVertexFromFace(v *VertexNode, f FaceID) {
	face := qh.mesh.face(f)
	if v == face.outside {
		if v.next != nil && v.next.face == f {
			face.outside = v.next
		} else {
			face.outside = nil
		}
	}
	qh.assigned.Remove(v)
}

// removeAllVerticesFromFace detaches the outside run of f from the assigned
// list and returns its head, nil if f sees nothing.
func (qh *QuickHull) removeAllVerticesFromFace(f FaceID) *VertexNode {
	face := qh.mesh.face(f)
	if face.outside == nil {
		return nil
	}

	start, end := face.outside, face.outside
	for end.next != nil && end.next.face == f {
		end = end.next
	}

	qh.assigned.RemoveSubList(start, end)
	face.outside = nil
	return start
}

// deleteFaceVertices moves the points f can see to the unassigned list, or
// to absorbing when it is a valid face and the point lies outside it.
func (qh *QuickHull) deleteFaceVertices(f, absorbing FaceID) {
	run := qh.removeAllVerticesFromFace(f)
	if run == nil {
		return
	}

	if !absorbing.Valid() {
		qh.unassigned.AppendChain(run)
		return
	}

	for v := run; v != nil; {
		// buffered: the calls below relink v
		next := v.next
		if qh.mesh.distanceToPoint(absorbing, v.Point) > qh.tolerance {
			qh.addVertexToFace(v, absorbing)
		} else {
			qh.unassigned.Append(v)
		}
		v = next
	}
}

// resolveUnassignedPoints reattaches every unassigned point to the new face it
// is farthest outside of. Points inside all new faces are dropped for good.
func (qh *QuickHull) resolveUnassignedPoints() {
	dropped := 0
	for v := qh.unassigned.First(); v != nil; {
		next := v.next

		maxDistance := qh.tolerance
		maxFace := noFace
		for _, f := range qh.newFaces {
			if qh.mesh.faces[f].Mark != Visible {
				continue
			}
			if d := qh.mesh.distanceToPoint(f, v.Point); d > maxDistance {
				maxDistance = d
				maxFace = f
			}
		}

		if maxFace.Valid() {
			qh.addVertexToFace(v, maxFace)
		} else {
			v.face = noFace
			dropped++
		}
		v = next
	}
	qh.unassigned.Clear()

	if dropped > 0 {
		qh.logger.Debug("[qh] interior points dropped", zap.Int("count", dropped))
	}
}

// computeExtremes returns, per axis, the vertex with the smallest and the
// largest coordinate, and fixes the tolerance for the whole run.
func (qh *QuickHull) computeExtremes() (minV, maxV [3]*VertexNode) {
	first := qh.vertices[0]
	for i := 0; i < 3; i++ {
		minV[i], maxV[i] = first, first
	}
	lo, hi := first.Point, first.Point

	for _, v := range qh.vertices {
		for j := 0; j < 3; j++ {
			c := component(v.Point, j)
			if c < component(lo, j) {
				lo = setComponent(lo, j, c)
				minV[j] = v
			}
		}
		for j := 0; j < 3; j++ {
			c := component(v.Point, j)
			if c > component(hi, j) {
				hi = setComponent(hi, j, c)
				maxV[j] = v
			}
		}
	}

	qh.tolerance = 3 * machineEpsilon * (math.Max(math.Abs(lo.X), math.Abs(hi.X)) +
		math.Max(math.Abs(lo.Y), math.Abs(hi.Y)) +
		math.Max(math.Abs(lo.Z), math.Abs(hi.Z)))

	qh.logger.Debug("[qh] extremes computed",
		zap.Any("min", lo), zap.Any("max", hi), zap.Float64("tolerance", qh.tolerance))
	return minV, maxV
}

// computeInitialHull builds the starting tetrahedron and hands every other
// point to the face it is farthest outside of.
func (qh *QuickHull) computeInitialHull() error {
	minV, maxV := qh.computeExtremes()

	// 1. v0, v1: the pair with the greatest separation along one axis
	maxDistance := 0.0
	index := 0
	for i := 0; i < 3; i++ {
		d := component(maxV[i].Point, i) - component(minV[i].Point, i)
		if d > maxDistance {
			maxDistance = d
			index = i
		}
	}
	if maxDistance <= qh.tolerance {
		return errors.Wrap(ErrDegenerateInput, "all points coincide")
	}
	v0, v1 := minV[index], maxV[index]

	// 2. v2: farthest from the segment v0-v1
	var v2 *VertexNode
	maxDistance = 0
	for _, v := range qh.vertices {
		if v == v0 || v == v1 {
			continue
		}
		closest := closestPointOnSegment(v0.Point, v1.Point, v.Point)
		if d := closest.Sub(v.Point).Norm2(); d > maxDistance {
			maxDistance = d
			v2 = v
		}
	}
	if v2 == nil || math.Sqrt(maxDistance) <= qh.tolerance {
		return errors.Wrap(ErrDegenerateInput, "all points are collinear")
	}

	// 3. v3: farthest from the plane v0, v1, v2
	normal := v2.Point.Sub(v1.Point).Cross(v0.Point.Sub(v1.Point)).Normalize()
	constant := -normal.Dot(v0.Point)
	planeDistance := func(p r3.Vector) float64 { return normal.Dot(p) + constant }

	var v3 *VertexNode
	maxDistance = -1
	for _, v := range qh.vertices {
		if v == v0 || v == v1 || v == v2 {
			continue
		}
		if d := math.Abs(planeDistance(v.Point)); d > maxDistance {
			maxDistance = d
			v3 = v
		}
	}
	if v3 == nil || maxDistance <= qh.tolerance {
		return errors.Wrap(ErrDegenerateInput, "all points are coplanar")
	}

	m := &qh.mesh
	var faces [4]FaceID

	if planeDistance(v3.Point) < 0 {
		// the plane normal already points away from v3
		faces = [4]FaceID{
			m.createFace(v0, v1, v2),
			m.createFace(v3, v1, v0),
			m.createFace(v3, v2, v1),
			m.createFace(v3, v0, v2),
		}
		for i := 0; i < 3; i++ {
			j := (i + 1) % 3
			m.setTwin(m.edgeAt(faces[i+1], 2), m.edgeAt(faces[0], j))
			m.setTwin(m.edgeAt(faces[i+1], 1), m.edgeAt(faces[j+1], 0))
		}
	} else {
		// v3 is in front of the plane: flip the winding of every face
		faces = [4]FaceID{
			m.createFace(v0, v2, v1),
			m.createFace(v3, v0, v1),
			m.createFace(v3, v1, v2),
			m.createFace(v3, v2, v0),
		}
		for i := 0; i < 3; i++ {
			j := (i + 1) % 3
			m.setTwin(m.edgeAt(faces[i+1], 2), m.edgeAt(faces[0], (3-i)%3))
			m.setTwin(m.edgeAt(faces[i+1], 0), m.edgeAt(faces[j+1], 1))
		}
	}
	qh.faces = append(qh.faces, faces[:]...)

	qh.logger.Debug("[qh] initial simplex",
		zap.Int("v0", v0.Index), zap.Int("v1", v1.Index),
		zap.Int("v2", v2.Index), zap.Int("v3", v3.Index))

	outside := 0
	for _, v := range qh.vertices {
		if v == v0 || v == v1 || v == v2 || v == v3 {
			continue
		}

		maxDistance := qh.tolerance
		maxFace := noFace
		for _, f := range faces {
			if d := m.distanceToPoint(f, v.Point); d > maxDistance {
				maxDistance = d
				maxFace = f
			}
		}
		if maxFace.Valid() {
			qh.addVertexToFace(v, maxFace)
			outside++
		}
	}

	qh.logger.Info("[qh] initial simplex built",
		zap.Int("outside", outside),
		zap.Int("interior", len(qh.vertices)-4-outside))
	return nil
}

// reindexFaces keeps the visible faces only.
func (qh *QuickHull) reindexFaces() {
	active := qh.faces[:0]
	for _, f := range qh.faces {
		if qh.mesh.faces[f].Mark == Visible {
			active = append(active, f)
		}
	}
	qh.faces = active
}

// nextVertexToAdd returns the point of the first non-empty outside run that
// lies farthest from its face, nil when no face sees any point.
func (qh *QuickHull) nextVertexToAdd() *VertexNode {
	if qh.assigned.IsEmpty() {
		return nil
	}

	var eye *VertexNode
	maxDistance := 0.0
	eyeFace := qh.assigned.First().face

	for v := qh.mesh.faces[eyeFace].outside; v != nil && v.face == eyeFace; v = v.next {
		if d := qh.mesh.distanceToPoint(eyeFace, v.Point); d > maxDistance {
			maxDistance = d
			eye = v
		}
	}
	return eye
}

// addVertexToHull replaces the faces the eye can see by a fan of faces from
// the eye to the horizon.
func (qh *QuickHull) addVertexToHull(eye *VertexNode) {
	qh.unassigned.Clear()

	// the eye must not end up in the unassigned list
	eyeFace := eye.face
	qh.removeVertexFromFace(eye, eyeFace)
	eye.face = noFace

	qh.computeHorizon(eye.Point, eyeFace)
	qh.addNewFaces(eye)
	qh.resolveUnassignedPoints()

	qh.logger.Debug("[qh] vertex added",
		zap.Int("iteration", qh.iterations),
		zap.Int("vertex", eye.Index),
		zap.Int("horizon", len(qh.horizon)),
		zap.Int("faces", len(qh.faces)))
}

// addAdjoiningFace creates the face eye, tail, head on horizonEdge and
// returns its edge ending at the eye.
func (qh *QuickHull) addAdjoiningFace(eye *VertexNode, horizonEdge EdgeID) EdgeID {
	m := &qh.mesh
	f := m.createFace(eye, m.tail(horizonEdge), m.head(horizonEdge))
	qh.faces = append(qh.faces, f)

	// edge -1 runs tail -> head, opposite to the horizon edge's twin
	m.setTwin(m.edgeAt(f, -1), m.edge(horizonEdge).twin)
	return m.edgeAt(f, 0)
}

// addNewFaces closes a fan of new faces around the horizon.
func (qh *QuickHull) addNewFaces(eye *VertexNode) {
	m := &qh.mesh
	qh.newFaces = qh.newFaces[:0]

	firstSide, prevSide := noEdge, noEdge
	for _, h := range qh.horizon {
		side := qh.addAdjoiningFace(eye, h)

		if !firstSide.Valid() {
			firstSide = side
		} else {
			m.setTwin(m.edge(side).next, prevSide)
		}

		qh.newFaces = append(qh.newFaces, m.edge(side).face)
		prevSide = side
	}

	m.setTwin(m.edge(firstSide).next, prevSide)
}

func (qh *QuickHull) cleanup() {
	qh.assigned.Clear()
	qh.unassigned.Clear()
	qh.newFaces = nil
	qh.horizon = nil
	qh.stack = nil
}

func component(v r3.Vector, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func setComponent(v r3.Vector, i int, c float64) r3.Vector {
	switch i {
	case 0:
		v.X = c
	case 1:
		v.Y = c
	default:
		v.Z = c
	}
	return v
}

// closestPointOnSegment clamps the projection of p onto a-b to the segment.
func closestPointOnSegment(a, b, p r3.Vector) r3.Vector {
	dir := b.Sub(a)
	l2 := dir.Norm2()
	if l2 == 0 {
		return a
	}
	t := p.Sub(a).Dot(dir) / l2
	t = math.Max(0, math.Min(1, t))
	return a.Add(dir.Mul(t))
}
