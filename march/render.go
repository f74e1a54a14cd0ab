package march

import (
	"image"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"
)

// Render sphere-traces every pixel of the image described by params against
// scene and returns the RGBA8 pixels.
//
// The first row of the buffer is j = Height-1 and the last is j = 0, so the
// buffer is laid out top row first. Rows are rendered concurrently; each row
// owns a disjoint slice of the buffer.
func Render(params ImageParameters, scene Scene, shader Shader) []byte {
	buf := make([]byte, params.BufferLen())
	stride := 4 * int(params.Width)
	right, up := Basis(params.CameraDirection)
	eps := NormalEpsilon(params.MinDistance)
	maxDistance := params.maxDistance()

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for row := 0; row < int(params.Height); row++ {
		row := row // per-iteration copy; go directive is below 1.22
		g.Go(func() error {
			j := int(params.Height) - 1 - row
			line := buf[row*stride : (row+1)*stride]
			for i := 0; i < int(params.Width); i++ {
				ray := cameraRay(params.Width, params.Height, params.CameraPosition, params.CameraDirection, right, up, i, j)
				c := shadePixel(ray, scene, shader, params.MaxSteps, params.MinDistance, maxDistance, eps)
				putPixel(line[4*i:4*i+4], c)
			}
			return nil
		})
	}
	_ = g.Wait() // rows never fail

	return buf
}

// RenderImage is Render wrapped as an image for encoders and viewers.
func RenderImage(params ImageParameters, scene Scene, shader Shader) *image.RGBA {
	return NewImage(int(params.Width), int(params.Height), Render(params, scene, shader))
}

// NewImage wraps an RGBA8 pixel buffer without copying it.
func NewImage(width, height int, pix []byte) *image.RGBA {
	return &image.RGBA{
		Pix:    pix,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
}

func shadePixel(ray Ray, scene Scene, shader Shader, maxSteps int, minDistance, maxDistance, eps float32) mgl32.Vec3 {
	res := Trace(ray.Origin, ray.Direction, scene, maxSteps, minDistance, maxDistance)
	if !res.Hit {
		return shader.Background()
	}
	return shader.Shade(Surface{
		RayDirection: ray.Direction,
		Normal:       EstimateNormal(scene, res.Point, eps),
		Point:        res.Point,
		Step:         res.Step,
		MaxSteps:     maxSteps,
	})
}

func putPixel(dst []byte, c mgl32.Vec3) {
	dst[0] = Quantize(c[0])
	dst[1] = Quantize(c[1])
	dst[2] = Quantize(c[2])
	dst[3] = 255
}

// Quantize maps a channel value in [0,1] to a byte, clamping out-of-range
// values and truncating the fraction. NaN maps to 0.
func Quantize(v float32) byte {
	v *= 255
	switch {
	case !(v > 0):
		return 0
	case v >= 255:
		return 255
	}
	return byte(v)
}
