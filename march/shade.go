package march

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Shininess exponents.
const (
	BlinnPhongShininess = 4 * 10
	PhongShininess      = 10
)

// Surface is what a Shader knows about a ray that hit the scene.
type Surface struct {
	RayDirection mgl32.Vec3
	Normal       mgl32.Vec3
	Point        mgl32.Vec3
	Step         int
	MaxSteps     int
}

// Shader turns hit information into a linear RGB color, nominally in [0,1].
type Shader interface {
	Shade(s Surface) mgl32.Vec3
	// Background is the color of rays that miss.
	Background() mgl32.Vec3
}

// BlinnPhong shades with a single point light using the half-vector specular
// term and step-count fog. There is no ambient term.
type BlinnPhong struct {
	Light Light
}

func (b BlinnPhong) Shade(s Surface) mgl32.Vec3 {
	return pointLight(b.Light, s, func(lightDir mgl32.Vec3) float32 {
		half := lightDir.Sub(s.RayDirection.Normalize()).Normalize()
		angle := math32.Max(0, half.Dot(s.Normal))
		return math32.Pow(angle, BlinnPhongShininess)
	})
}

func (BlinnPhong) Background() mgl32.Vec3 { return mgl32.Vec3{} }

// Phong is the reflected-ray variant of BlinnPhong.
type Phong struct {
	Light Light
}

func (p Phong) Shade(s Surface) mgl32.Vec3 {
	return pointLight(p.Light, s, func(lightDir mgl32.Vec3) float32 {
		reflected := lightDir.Sub(s.Normal.Mul(2 * lightDir.Dot(s.Normal)))
		angle := math32.Max(0, reflected.Dot(s.RayDirection.Normalize()))
		return math32.Pow(angle, PhongShininess)
	})
}

func (Phong) Background() mgl32.Vec3 { return mgl32.Vec3{} }

// pointLight evaluates the shared diffuse + specular + fog structure; specular
// maps the unit direction toward the light to the specular angle term.
func pointLight(light Light, s Surface, specular func(lightDir mgl32.Vec3) float32) mgl32.Vec3 {
	toLight := light.Position.Sub(s.Point)
	lightDistanceSq := toLight.Dot(toLight)
	lightDir := toLight.Normalize()

	lambertian := s.Normal.Dot(lightDir)
	if !(lambertian > 0) {
		return mgl32.Vec3{}
	}

	specularIntensity := specular(lightDir) * light.SpecularPower
	diffuseIntensity := lambertian * light.DiffusePower
	fog := -float32(s.Step) / float32(s.MaxSteps)

	var out mgl32.Vec3
	for c := range out {
		out[c] = fog + (diffuseIntensity*light.DiffuseColor[c]+specularIntensity*light.SpecularColor[c])/lightDistanceSq
	}
	return out
}

// Steps is the unlit shader: brightness falls off with the number of steps
// a ray needed to reach the surface.
type Steps struct{}

func (Steps) Shade(s Surface) mgl32.Vec3 {
	v := 1 - float32(s.Step)/float32(s.MaxSteps)
	return mgl32.Vec3{v, v, v}
}

func (Steps) Background() mgl32.Vec3 { return mgl32.Vec3{} }

// ShaderNames lists the names accepted by ShaderByName.
var ShaderNames = []string{"blinn-phong", "phong", "steps"}

// ShaderByName returns the named shader lit by light.
func ShaderByName(name string, light Light) (Shader, error) {
	switch name {
	case "blinn-phong", "":
		return BlinnPhong{Light: light}, nil
	case "phong":
		return Phong{Light: light}, nil
	case "steps":
		return Steps{}, nil
	}
	return nil, fmt.Errorf("unknown shading %q (want one of %v)", name, ShaderNames)
}
