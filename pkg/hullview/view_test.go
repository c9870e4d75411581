package hullview

import (
	"strings"
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0FACED/go-hull/pkg/anchor"
	"github.com/0x0FACED/go-hull/pkg/logger"
	"github.com/0x0FACED/go-hull/pkg/quickhull"
)

// octant returns a collection whose single point mirrors into the 8 corners
// of a box.
func octant() *anchor.Collection {
	c := anchor.NewCollection()
	p := c.Add(r3.Vector{X: 1, Y: 2, Z: 3})
	for _, m := range anchor.Mirrors {
		p.SetMirror(m, true)
	}
	return c
}

func TestBuildConvexHull(t *testing.T) {
	v := New(octant(), WithName("box"))
	assert.Nil(t, v.Hull())
	assert.Nil(t, v.ExportOBJ())

	hull, err := v.BuildConvexHull()
	require.NoError(t, err)
	require.NotNil(t, hull)
	assert.Len(t, v.AnchorPoints(), 8)
	assert.Equal(t, 12, hull.FaceCount())
	assert.InDelta(t, 48.0, hull.Volume(), 1e-9)
	assert.Same(t, hull, v.Hull())

	obj := string(v.ExportOBJ())
	assert.True(t, strings.HasPrefix(obj, "o box\n"))
	assert.Equal(t, 12, strings.Count(obj, "\nf "))

	v.DeleteConvexHull()
	assert.Nil(t, v.Hull())
	assert.Nil(t, v.ExportOBJ())
}

func TestBuildConvexHullTooFewPoints(t *testing.T) {
	log := logger.New(logger.WithoutColor())
	c := anchor.NewCollection()
	c.Add(r3.Vector{X: 1})
	c.Add(r3.Vector{Y: 1})

	v := New(c, WithLogger(log))
	hull, err := v.BuildConvexHull()
	assert.NoError(t, err)
	assert.Nil(t, hull)
	assert.Contains(t, log.String(), "at least 4 points")
}

func TestBuildConvexHullDegenerate(t *testing.T) {
	c := anchor.NewCollection()
	for i := 0; i < 5; i++ {
		c.Add(r3.Vector{X: float64(i)})
	}

	v := New(c)
	hull, err := v.BuildConvexHull()
	require.Error(t, err)
	assert.Nil(t, hull)
	assert.ErrorIs(t, v.Err(), quickhull.ErrDegenerateInput)
}

func TestCacheIsKeptUntilUpdate(t *testing.T) {
	c := octant()
	v := New(c)
	_, err := v.BuildConvexHull()
	require.NoError(t, err)

	c.Add(r3.Vector{X: 0, Y: 0, Z: 10})
	hull, err := v.BuildConvexHull()
	require.NoError(t, err)
	assert.Equal(t, 8, hull.VertexCount())

	assert.Len(t, v.UpdateAnchorPoints(), 9)
	hull, err = v.BuildConvexHull()
	require.NoError(t, err)
	assert.Equal(t, 9, hull.VertexCount())
}

func TestRebuildIsDebounced(t *testing.T) {
	built := make(chan *quickhull.Hull, 10)
	c := octant()
	v := New(c,
		WithDebounce(20*time.Millisecond),
		OnBuilt(func(h *quickhull.Hull, err error) {
			assert.NoError(t, err)
			built <- h
		}))

	for i := 0; i < 5; i++ {
		v.Rebuild()
	}

	select {
	case h := <-built:
		require.NotNil(t, h)
		assert.Equal(t, 12, h.FaceCount())
	case <-time.After(5 * time.Second):
		t.Fatal("rebuild never ran")
	}

	select {
	case <-built:
		t.Fatal("rebuild ran more than once")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestAnchorPointsReturnsCopy(t *testing.T) {
	v := New(octant())
	pts := v.UpdateAnchorPoints()
	require.Len(t, pts, 8)
	pts[0] = r3.Vector{X: 100}

	got := v.AnchorPoints()
	got[1] = r3.Vector{Y: 100}

	for _, p := range v.AnchorPoints() {
		assert.LessOrEqual(t, p.Norm(), r3.Vector{X: 1, Y: 2, Z: 3}.Norm())
	}
}
