package march

import "github.com/go-gl/mathgl/mgl32"

var worldUp = mgl32.Vec3{0, 0, 1}

// degenerateBasis is the squared length of cross(forward, worldUp) below which
// the view direction is treated as parallel to world-up.
const degenerateBasis = 1e-12

// Ray is a half-line starting at Origin. Direction is not necessarily unit length.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point t units of Direction along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Basis returns the right and up screen axes for a camera looking along direction.
// Right is derived from world-up (0,0,1). When direction is parallel to world-up
// the fixed axes (1,0,0) and (0,1,0) are used instead.
func Basis(direction mgl32.Vec3) (right, up mgl32.Vec3) {
	forward := direction.Normalize()
	right = forward.Cross(worldUp)
	if right.Dot(right) < degenerateBasis {
		return mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}
	}
	up = right.Cross(forward)
	return right, up
}

// CameraRay returns the primary ray through pixel (i, j) of a width x height image.
// j grows toward the top of the image.
func CameraRay(width, height uint32, position, direction mgl32.Vec3, i, j int) Ray {
	right, up := Basis(direction)
	return cameraRay(width, height, position, direction, right, up, i, j)
}

func cameraRay(width, height uint32, position, direction, right, up mgl32.Vec3, i, j int) Ray {
	w, h := float32(width), float32(height)
	aspectRatio := w / h
	x := (float32(i)/w - 0.5) * aspectRatio
	y := float32(j)/h - 0.5
	return Ray{
		Origin:    position,
		Direction: direction.Add(right.Mul(x)).Add(up.Mul(y)),
	}
}
