package quickhull

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
)

func assertVectorNear(t *testing.T, want, got r3.Vector) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-12, "x of %v", got)
	assert.InDelta(t, want.Y, got.Y, 1e-12, "y of %v", got)
	assert.InDelta(t, want.Z, got.Z, 1e-12, "z of %v", got)
}

func tetrahedron() []r3.Vector {
	return []r3.Vector{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	}
}

func unitCube() []r3.Vector {
	var pts []r3.Vector
	for _, z := range []float64{0, 1} {
		for _, y := range []float64{0, 1} {
			for _, x := range []float64{0, 1} {
				pts = append(pts, r3.Vector{X: x, Y: y, Z: z})
			}
		}
	}
	return pts
}

// sphereCloud returns n points in general position on a sphere of the given
// radius.
func sphereCloud(seed int64, n int, radius float64) []r3.Vector {
	rng := rand.New(rand.NewSource(seed))
	pts := make([]r3.Vector, n)
	for i := range pts {
		z := 2*rng.Float64() - 1
		phi := 2 * math.Pi * rng.Float64()
		r := math.Sqrt(1 - z*z)
		pts[i] = r3.Vector{X: r * math.Cos(phi), Y: r * math.Sin(phi), Z: z}.Mul(radius)
	}
	return pts
}

// ballCloud returns n points uniformly spread in a cube, most of them
// interior to their own hull.
func ballCloud(seed int64, n int, half float64) []r3.Vector {
	rng := rand.New(rand.NewSource(seed))
	pts := make([]r3.Vector, n)
	for i := range pts {
		pts[i] = r3.Vector{
			X: (2*rng.Float64() - 1) * half,
			Y: (2*rng.Float64() - 1) * half,
			Z: (2*rng.Float64() - 1) * half,
		}
	}
	return pts
}

// canonicalFaces maps face indices to positions and rotates every triangle
// so that its smallest point comes first, keeping the winding.
func canonicalFaces(h *Hull, pts []r3.Vector) [][3]r3.Vector {
	less := func(a, b r3.Vector) bool {
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	}

	var out [][3]r3.Vector
	for _, f := range h.Faces() {
		tri := [3]r3.Vector{pts[f[0]], pts[f[1]], pts[f[2]]}
		for less(tri[1], tri[0]) || less(tri[2], tri[0]) {
			tri = [3]r3.Vector{tri[1], tri[2], tri[0]}
		}
		out = append(out, tri)
	}
	sort.Slice(out, func(i, j int) bool {
		for k := 0; k < 3; k++ {
			if out[i][k] != out[j][k] {
				return less(out[i][k], out[j][k])
			}
		}
		return false
	})
	return out
}

func hullPoints(h *Hull, pts []r3.Vector) []r3.Vector {
	var out []r3.Vector
	for _, i := range h.Vertices() {
		out = append(out, pts[i])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].Z < out[j].Z
	})
	return out
}
