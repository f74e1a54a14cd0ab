package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gmlewis/fractal-renderer/march"
	"github.com/go-gl/mathgl/mgl32"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate = %v", err)
	}
	if got := cfg.Light(); got != march.DefaultLight {
		t.Errorf("Light = %+v, want %+v", got, march.DefaultLight)
	}
	scene, shader, err := cfg.SceneAndShader()
	if err != nil {
		t.Fatalf("SceneAndShader: %v", err)
	}
	if _, ok := scene.(march.SphereLattice); !ok {
		t.Errorf("scene = %T, want march.SphereLattice", scene)
	}
	if _, ok := shader.(march.BlinnPhong); !ok {
		t.Errorf("shader = %T, want march.BlinnPhong", shader)
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("testdata/sierpinski.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	p := cfg.Params()
	if p.Width != 320 || p.Height != 240 {
		t.Errorf("size = %vx%v, want 320x240", p.Width, p.Height)
	}
	if want := (mgl32.Vec3{0.2, -0.1, 2.5}); p.CameraPosition != want {
		t.Errorf("CameraPosition = %v, want %v", p.CameraPosition, want)
	}
	if p.MaxSteps != 200 {
		t.Errorf("MaxSteps = %v, want 200", p.MaxSteps)
	}
	if p.MaxDistance != 0 {
		t.Errorf("MaxDistance = %v, want 0", p.MaxDistance)
	}

	light := cfg.Light()
	if light.DiffusePower != 8 || light.SpecularPower != 4 {
		t.Errorf("light powers = %v,%v, want 8,4", light.DiffusePower, light.SpecularPower)
	}
	_, shader, err := cfg.SceneAndShader()
	if err != nil {
		t.Fatalf("SceneAndShader: %v", err)
	}
	if ph, ok := shader.(march.Phong); !ok || ph.Light != light {
		t.Errorf("shader = %#v, want Phong lit by %+v", shader, light)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.json")
	if err := os.WriteFile(path, []byte(`{"cameraPosition":[0,0,4],"cameraDirection":[0,0,-1]}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Width != DefaultWidth || cfg.Height != DefaultHeight {
		t.Errorf("size = %vx%v, want defaults", cfg.Width, cfg.Height)
	}
	if cfg.MaxSteps != DefaultMaxSteps || cfg.MinDistance != DefaultMinDistance {
		t.Errorf("MaxSteps=%v MinDistance=%v, want defaults", cfg.MaxSteps, cfg.MinDistance)
	}
	if cfg.Scene != DefaultScene || cfg.Shading != DefaultShading {
		t.Errorf("scene=%q shading=%q, want defaults", cfg.Scene, cfg.Shading)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "bad json", body: `{"width":`, want: "unexpected end"},
		{name: "unknown scene", body: `{"scene":"teapot"}`, want: "unknown scene"},
		{name: "unknown shading", body: `{"shading":"toon"}`, want: "unknown shading"},
		{name: "negative max distance", body: `{"maxDistance":-1}`, want: "max distance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.json")
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load = %v, want error containing %q", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load of missing file succeeded")
	}
}

func TestParseFallback(t *testing.T) {
	if got := ParseFloat(" 2.5 ", 1); got != 2.5 {
		t.Errorf("ParseFloat(2.5) = %v", got)
	}
	if got := ParseFloat("abc", 1.25); got != 1.25 {
		t.Errorf("ParseFloat(abc) = %v, want previous 1.25", got)
	}
	if got := ParseFloat("", 3); got != 3 {
		t.Errorf("ParseFloat('') = %v, want previous 3", got)
	}

	if got := ParseUint("640", 400); got != 640 {
		t.Errorf("ParseUint(640) = %v", got)
	}
	if got := ParseUint("-5", 400); got != 400 {
		t.Errorf("ParseUint(-5) = %v, want previous 400", got)
	}
	if got := ParseUint("99999999999", 300); got != 300 {
		t.Errorf("ParseUint(overflow) = %v, want previous 300", got)
	}

	if got := ParseInt("150", 100); got != 150 {
		t.Errorf("ParseInt(150) = %v", got)
	}
	if got := ParseInt("1.5", 100); got != 100 {
		t.Errorf("ParseInt(1.5) = %v, want previous 100", got)
	}

	prev := mgl32.Vec3{1, 2, 3}
	if got, want := ParseVec3("4", "x", "6", prev), (mgl32.Vec3{4, 2, 6}); got != want {
		t.Errorf("ParseVec3 = %v, want %v", got, want)
	}
}

func TestParseVec3String(t *testing.T) {
	prev := mgl32.Vec3{1, 2, 3}
	tests := []struct {
		in   string
		want mgl32.Vec3
	}{
		{in: "0.5, -1, 4", want: mgl32.Vec3{0.5, -1, 4}},
		{in: "7", want: mgl32.Vec3{7, 2, 3}},
		{in: ",,9", want: mgl32.Vec3{1, 2, 9}},
		{in: "", want: prev},
		{in: "a,b,c", want: prev},
	}

	for _, tt := range tests {
		if got := ParseVec3String(tt.in, prev); got != tt.want {
			t.Errorf("ParseVec3String(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
