package march

import (
	"fmt"
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Slicer samples a Scene on a regular voxel grid, one Z slice at a time.
type Slicer struct {
	scene  Scene
	min    [3]float32
	max    [3]float32
	deltaX float32 // model units
	deltaY float32
	deltaZ float32
}

// NewSlicer returns a Slicer over the box [min, max] with cubic voxels of
// edge voxelSize.
func NewSlicer(scene Scene, min, max [3]float32, voxelSize float32) (*Slicer, error) {
	if voxelSize <= 0 {
		return nil, fmt.Errorf("voxel size must be positive, got %v", voxelSize)
	}
	for i := range min {
		if max[i] <= min[i] {
			return nil, fmt.Errorf("bad bounding box: min=%v, max=%v", min, max)
		}
	}
	return &Slicer{scene: scene, min: min, max: max, deltaX: voxelSize, deltaY: voxelSize, deltaZ: voxelSize}, nil
}

// MBB returns the minimum bounding box being sliced.
func (s *Slicer) MBB() (min, max [3]float32) {
	return s.min, s.max
}

// ZSliceProcessor represents a Z slice processor.
type ZSliceProcessor interface {
	ProcessZSlice(sliceNum int, z, voxelRadius float32, img image.Image) error
}

// Order represents the order of slice processing.
type Order byte

const (
	MinToMax Order = iota
	MaxToMin
)

// NumXSlices returns the number of voxels in the X direction.
func (s *Slicer) NumXSlices() int {
	return int(0.5 + (s.max[0]-s.min[0])/s.deltaX)
}

// NumYSlices returns the number of voxels in the Y direction.
func (s *Slicer) NumYSlices() int {
	return int(0.5 + (s.max[1]-s.min[1])/s.deltaY)
}

// NumZSlices returns the number of slices in the Z direction.
func (s *Slicer) NumZSlices() int {
	return int(0.5 + (s.max[2]-s.min[2])/s.deltaZ)
}

// RenderZSlices renders every Z slice to an image, calling the
// ZSliceProcessor for each slice. Voxels inside the surface are white.
func (s *Slicer) RenderZSlices(sp ZSliceProcessor, order Order) error {
	numSlices := s.NumZSlices()
	voxelRadiusZ := 0.5 * s.deltaZ
	minVal := s.min[2] + voxelRadiusZ

	var zFunc func(n int) float32

	switch order {
	case MinToMax:
		zFunc = func(n int) float32 {
			return minVal + float32(n)*s.deltaZ
		}
	case MaxToMin:
		zFunc = func(n int) float32 {
			return minVal + float32(numSlices-n-1)*s.deltaZ
		}
	default:
		return fmt.Errorf("unknown slice order %v", order)
	}

	for n := 0; n < numSlices; n++ {
		z := zFunc(n)

		img := s.renderSlice(z)
		if err := sp.ProcessZSlice(n, z, voxelRadiusZ, img); err != nil {
			return fmt.Errorf("ProcessZSlice(%v,%v,%v): %w", n, z, voxelRadiusZ, err)
		}
	}
	return nil
}

func (s *Slicer) renderSlice(z float32) *image.Gray {
	nx, ny := s.NumXSlices(), s.NumYSlices()
	img := image.NewGray(image.Rect(0, 0, nx, ny))
	for v := 0; v < ny; v++ {
		y := s.min[1] + (float32(v)+0.5)*s.deltaY
		for u := 0; u < nx; u++ {
			x := s.min[0] + (float32(u)+0.5)*s.deltaX
			if s.scene.Distance(mgl32.Vec3{x, y, z}) <= 0 {
				img.SetGray(u, v, color.Gray{Y: 255})
			}
		}
	}
	return img
}
