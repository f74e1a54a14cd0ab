package march

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestShadeFacingAwayIsBlack(t *testing.T) {
	light := Light{
		Position:      mgl32.Vec3{0, 0, 5},
		DiffuseColor:  mgl32.Vec3{1, 1, 1},
		DiffusePower:  100,
		SpecularColor: mgl32.Vec3{1, 1, 1},
		SpecularPower: 100,
	}
	surfaces := []Surface{
		{RayDirection: mgl32.Vec3{0, 0, 1}, Normal: mgl32.Vec3{0, 0, -1}, Point: mgl32.Vec3{0, 0, 0.5}, MaxSteps: 100},
		{RayDirection: mgl32.Vec3{1, 0, 0}, Normal: mgl32.Vec3{1, 0, 0}, Point: mgl32.Vec3{}, MaxSteps: 100},
		{RayDirection: mgl32.Vec3{0, 1, 0}, Normal: mgl32.Vec3{0, 1, -1}.Normalize(), Point: mgl32.Vec3{0, 3, 0}, Step: 7, MaxSteps: 100},
	}

	for _, sh := range []Shader{BlinnPhong{Light: light}, Phong{Light: light}} {
		for _, s := range surfaces {
			if got := sh.Shade(s); got != (mgl32.Vec3{}) {
				t.Errorf("%T.Shade(%+v) = %v, want black", sh, s, got)
			}
		}
	}
}

func TestShadeDiffuseAndFog(t *testing.T) {
	light := Light{
		Position:     mgl32.Vec3{0, 0, 2},
		DiffuseColor: mgl32.Vec3{1, 0.5, 0.25},
		DiffusePower: 4,
	}
	s := Surface{
		RayDirection: mgl32.Vec3{1, 0, -1},
		Normal:       mgl32.Vec3{0, 0, 1},
		MaxSteps:     100,
	}

	for _, sh := range []Shader{BlinnPhong{Light: light}, Phong{Light: light}} {
		if got := sh.Shade(s); !got.ApproxEqual(mgl32.Vec3{1, 0.5, 0.25}) {
			t.Errorf("%T: no fog = %v, want (1,0.5,0.25)", sh, got)
		}
		s.Step = 10
		if got := sh.Shade(s); !got.ApproxEqualThreshold(mgl32.Vec3{0.9, 0.4, 0.15}, 1e-5) {
			t.Errorf("%T: fog = %v, want (0.9,0.4,0.15)", sh, got)
		}
		s.Step = 0
	}
}

func TestShadeSpecular(t *testing.T) {
	light := Light{
		Position:      mgl32.Vec3{0, 0, 2},
		SpecularColor: mgl32.Vec3{1, 0.5, 0},
		SpecularPower: 8,
	}
	// looking straight down at a light straight above: full highlight
	s := Surface{
		RayDirection: mgl32.Vec3{0, 0, -3},
		Normal:       mgl32.Vec3{0, 0, 1},
		MaxSteps:     100,
	}
	for _, sh := range []Shader{BlinnPhong{Light: light}, Phong{Light: light}} {
		if got := sh.Shade(s); !got.ApproxEqual(mgl32.Vec3{2, 1, 0}) {
			t.Errorf("%T.Shade = %v, want (2,1,0)", sh, got)
		}
	}

	// off-axis view: Blinn-Phong's tighter exponent still leaves a highlight
	// that is weaker than the head-on one.
	s.RayDirection = mgl32.Vec3{0.3, 0, -1}
	got := BlinnPhong{Light: light}.Shade(s)
	if !(got[0] > 0 && got[0] < 2) {
		t.Errorf("off-axis highlight = %v, want within (0,2)", got)
	}
}

func TestStepsShader(t *testing.T) {
	got := Steps{}.Shade(Surface{Step: 25, MaxSteps: 100})
	if !got.ApproxEqual(mgl32.Vec3{0.75, 0.75, 0.75}) {
		t.Errorf("Shade = %v, want 0.75 gray", got)
	}
	if bg := (Steps{}).Background(); bg != (mgl32.Vec3{}) {
		t.Errorf("Background = %v, want black", bg)
	}
}

func TestShaderByName(t *testing.T) {
	tests := []struct {
		name string
		want Shader
	}{
		{name: "", want: BlinnPhong{Light: DefaultLight}},
		{name: "blinn-phong", want: BlinnPhong{Light: DefaultLight}},
		{name: "phong", want: Phong{Light: DefaultLight}},
		{name: "steps", want: Steps{}},
	}
	for _, tt := range tests {
		got, err := ShaderByName(tt.name, DefaultLight)
		if err != nil {
			t.Fatalf("ShaderByName(%q): %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("ShaderByName(%q) = %#v, want %#v", tt.name, got, tt.want)
		}
	}

	if _, err := ShaderByName("toon", DefaultLight); err == nil {
		t.Error("ShaderByName(toon) = nil error, want error")
	}
}
