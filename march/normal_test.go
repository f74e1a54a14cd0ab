package march

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestEstimateNormalSphere(t *testing.T) {
	scene := Sphere{Radius: 0.5}
	points := []mgl32.Vec3{
		{0.5, 0, 0},
		{0, -0.5, 0},
		{0, 0.3, 0.4},
		{-0.3, 0, -0.4},
		mgl32.Vec3{1, 1, 1}.Normalize().Mul(0.5),
	}
	for _, p := range points {
		n := EstimateNormal(scene, p, NormalEpsilon(1e-2))
		if d := n.Dot(p.Normalize()); d < 1-1e-3 {
			t.Errorf("normal at %v = %v, dot with radial direction = %v", p, n, d)
		}
		if l := n.Len(); l < 1-1e-4 || l > 1+1e-4 {
			t.Errorf("normal at %v has length %v", p, l)
		}
	}
}

func TestEstimateNormalLattice(t *testing.T) {
	scene := SphereLattice{Radius: LatticeRadiusWide}
	// top of the sphere in cell (2,1)
	p := mgl32.Vec3{2.5, 1.5, 0.5 + LatticeRadiusWide}
	n := EstimateNormal(scene, p, 1e-3)
	if !n.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-3) {
		t.Errorf("normal at %v = %v, want (0,0,1)", p, n)
	}
}

func TestNormalEpsilon(t *testing.T) {
	if got := NormalEpsilon(1e-3); got < 0.99e-4 || got > 1.01e-4 {
		t.Errorf("NormalEpsilon(1e-3) = %v, want 1e-4", got)
	}
}
