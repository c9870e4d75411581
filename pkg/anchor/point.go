package anchor

import (
	"github.com/golang/geo/r3"
)

// Mirror selects one of the symmetric copies an anchor point can emit.
type Mirror uint8

const (
	MirrorX Mirror = iota
	MirrorY
	MirrorZ
	RadialMirrorX
	RadialMirrorY
	RadialMirrorZ
	RadialMirrorO

	mirrorCount
)

// Mirrors lists every flag in emission order.
var Mirrors = [mirrorCount]Mirror{
	MirrorX, MirrorY, MirrorZ,
	RadialMirrorX, RadialMirrorY, RadialMirrorZ, RadialMirrorO,
}

var mirrorNames = [mirrorCount]string{
	"mirrorX", "mirrorY", "mirrorZ",
	"radialMirrorX", "radialMirrorY", "radialMirrorZ", "radialMirrorO",
}

func (m Mirror) String() string {
	if m >= mirrorCount {
		return "unknown"
	}
	return mirrorNames[m]
}

// Apply returns the copy of p produced by m. Plane mirrors negate one axis,
// radial mirrors rotate half a turn around an axis (or the origin for O).
func (m Mirror) Apply(p r3.Vector) r3.Vector {
	switch m {
	case MirrorX:
		return r3.Vector{X: -p.X, Y: p.Y, Z: p.Z}
	case MirrorY:
		return r3.Vector{X: p.X, Y: -p.Y, Z: p.Z}
	case MirrorZ:
		return r3.Vector{X: p.X, Y: p.Y, Z: -p.Z}
	case RadialMirrorX:
		return r3.Vector{X: p.X, Y: -p.Y, Z: -p.Z}
	case RadialMirrorY:
		return r3.Vector{X: -p.X, Y: p.Y, Z: -p.Z}
	case RadialMirrorZ:
		return r3.Vector{X: -p.X, Y: -p.Y, Z: p.Z}
	case RadialMirrorO:
		return r3.Vector{X: -p.X, Y: -p.Y, Z: -p.Z}
	default:
		return p
	}
}

// Point is a user placed position plus the mirror copies it should emit.
// Disabled points stay in their collection but emit nothing.
type Point struct {
	ID       string
	Position r3.Vector
	Enabled  bool

	mirrors [mirrorCount]bool
}

func NewPoint(id string, pos r3.Vector) *Point {
	return &Point{ID: id, Position: pos, Enabled: true}
}

func (p *Point) SetMirror(m Mirror, on bool) *Point {
	if m < mirrorCount {
		p.mirrors[m] = on
	}
	return p
}

func (p *Point) Mirrored(m Mirror) bool {
	return m < mirrorCount && p.mirrors[m]
}

func (p *Point) Enable(on bool) *Point {
	p.Enabled = on
	return p
}

// Variants returns the position followed by every enabled mirror copy, in
// the order of Mirrors. The enabled flag is not checked here.
func (p *Point) Variants() []r3.Vector {
	out := []r3.Vector{p.Position}
	for _, m := range Mirrors {
		if p.mirrors[m] {
			out = append(out, m.Apply(p.Position))
		}
	}
	return out
}
