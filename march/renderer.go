package march

import (
	"errors"
	"fmt"
)

// Renderer represents a renderer backend.
type Renderer interface {
	Init(width, height int, view bool) error
	Prepare(scene Scene, shader Shader) error
	Render(params ImageParameters) ([]byte, error)
	Close()
}

// CPURenderer renders on the host with Render.
type CPURenderer struct {
	width  int
	height int
	scene  Scene
	shader Shader
}

var _ Renderer = &CPURenderer{}

func (r *CPURenderer) Init(width, height int, view bool) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("bad image size %vx%v", width, height)
	}
	r.width, r.height = width, height
	return nil
}

func (r *CPURenderer) Prepare(scene Scene, shader Shader) error {
	if scene == nil || shader == nil {
		return errors.New("scene and shader are required")
	}
	r.scene, r.shader = scene, shader
	return nil
}

func (r *CPURenderer) Render(params ImageParameters) ([]byte, error) {
	if r.scene == nil {
		return nil, errors.New("renderer not prepared")
	}
	if err := CheckSize(params, r.width, r.height); err != nil {
		return nil, err
	}
	return Render(params, r.scene, r.shader), nil
}

func (r *CPURenderer) Close() {}

// CheckSize validates params and verifies they match the size a backend was
// initialized with.
func CheckSize(params ImageParameters, width, height int) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if int(params.Width) != width || int(params.Height) != height {
		return fmt.Errorf("params are %vx%v but renderer was initialized for %vx%v",
			params.Width, params.Height, width, height)
	}
	return nil
}
