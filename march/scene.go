package march

import (
	"fmt"
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Scene is a signed distance field: negative inside a surface, positive outside.
type Scene interface {
	Distance(p mgl32.Vec3) float32
}

// Radius presets for SphereLattice.
const (
	LatticeRadiusWide   = 0.4
	LatticeRadiusNarrow = 0.3
)

// Sphere is a single sphere centered at the origin.
type Sphere struct {
	Radius float32
}

func (s Sphere) Distance(p mgl32.Vec3) float32 {
	return p.Len() - s.Radius
}

// SphereLattice repeats a sphere in every unit cell of the XY plane.
// Cell coordinates are mirrored through zero so the lattice is symmetric
// about both axes.
type SphereLattice struct {
	Radius float32
}

var latticeCenter = mgl32.Vec3{0.5, 0.5, 0.5}

func (s SphereLattice) Distance(p mgl32.Vec3) float32 {
	instance := mgl32.Vec3{wrapUnit(p.X()), wrapUnit(p.Y()), p.Z()}.Sub(latticeCenter)
	return instance.Len() - s.Radius
}

// wrapUnit folds v into [0,1) measured away from zero.
func wrapUnit(v float32) float32 {
	return math32.Mod(v, 1) * signum(v)
}

// signum returns 1 for +0 and positive values and -1 for -0 and negative values.
func signum(v float32) float32 {
	return math32.Copysign(1, v)
}

// Sierpinski tetrahedron defaults.
const (
	SierpinskiIterations = 10
	SierpinskiScale      = 2.0
)

var sierpinskiCorners = [4]mgl32.Vec3{
	{1, 1, 1},
	{-1, -1, 1},
	{1, -1, -1},
	{-1, 1, -1},
}

// Sierpinski is a distance estimate for the Sierpinski tetrahedron, computed
// with a fixed number of folds toward the nearest tetrahedron vertex.
type Sierpinski struct {
	Iterations int
	Scale      float32
}

// NewSierpinski returns the tetrahedron with the default iteration count and scale.
func NewSierpinski() Sierpinski {
	return Sierpinski{Iterations: SierpinskiIterations, Scale: SierpinskiScale}
}

func (s Sierpinski) Distance(p mgl32.Vec3) float32 {
	for n := 0; n < s.Iterations; n++ {
		nearest := sierpinskiCorners[0]
		best := p.Sub(nearest).Len()
		for _, c := range sierpinskiCorners[1:] {
			if d := p.Sub(c).Len(); d < best {
				nearest, best = c, d
			}
		}
		p = p.Mul(s.Scale).Sub(nearest.Mul(s.Scale - 1))
	}
	return p.Len() * math32.Pow(s.Scale, -float32(s.Iterations))
}

var scenes = map[string]func() Scene{
	"sphere":         func() Scene { return Sphere{Radius: 0.5} },
	"lattice":        func() Scene { return SphereLattice{Radius: LatticeRadiusWide} },
	"lattice-narrow": func() Scene { return SphereLattice{Radius: LatticeRadiusNarrow} },
	"sierpinski":     func() Scene { return NewSierpinski() },
}

// SceneByName returns the built-in scene registered under name.
func SceneByName(name string) (Scene, error) {
	f, ok := scenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (want one of %v)", name, SceneNames())
	}
	return f(), nil
}

// SceneNames lists the built-in scenes in sorted order.
func SceneNames() []string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
