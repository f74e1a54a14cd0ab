package march

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultMaxDistance is the escape distance used when ImageParameters.MaxDistance is zero.
const DefaultMaxDistance = 100

// ImageParameters describes a single render. It is immutable once handed to Render.
type ImageParameters struct {
	Width           uint32
	Height          uint32
	CameraPosition  mgl32.Vec3
	CameraDirection mgl32.Vec3
	MaxSteps        int
	MinDistance     float32
	MaxDistance     float32 // zero means DefaultMaxDistance
}

// Validate reports the first violated invariant of p, if any.
func (p ImageParameters) Validate() error {
	switch {
	case p.Width == 0:
		return errors.New("image width must be positive")
	case p.Height == 0:
		return errors.New("image height must be positive")
	case p.MaxSteps <= 0:
		return fmt.Errorf("max steps must be positive, got %v", p.MaxSteps)
	case p.MinDistance <= 0:
		return fmt.Errorf("min distance must be positive, got %v", p.MinDistance)
	case p.MaxDistance < 0:
		return fmt.Errorf("max distance must not be negative, got %v", p.MaxDistance)
	}
	return nil
}

func (p ImageParameters) maxDistance() float32 {
	if p.MaxDistance == 0 {
		return DefaultMaxDistance
	}
	return p.MaxDistance
}

// BufferLen returns the size in bytes of the RGBA8 buffer rendered for p.
func (p ImageParameters) BufferLen() int {
	return 4 * int(p.Width) * int(p.Height)
}

// Light is a single point light.
type Light struct {
	Position      mgl32.Vec3
	DiffuseColor  mgl32.Vec3
	DiffusePower  float32
	SpecularColor mgl32.Vec3
	SpecularPower float32
}

// DefaultLight is the light used when the host does not supply one.
var DefaultLight = Light{
	Position:      mgl32.Vec3{2, -2, 3},
	DiffuseColor:  mgl32.Vec3{1, 0.9, 0.8},
	DiffusePower:  10,
	SpecularColor: mgl32.Vec3{1, 1, 1},
	SpecularPower: 10,
}
