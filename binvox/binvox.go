// Package binvox slices an SDF scene and writes binvox voxel files.
package binvox

import (
	"fmt"
	"image"
	"log"

	"github.com/gmlewis/fractal-renderer/march"
	"github.com/gmlewis/stldice/v4/binvox"
)

// Slicer represents a voxel source for a binvox file.
type Slicer interface {
	MBB() (min, max [3]float32) // in model units

	RenderZSlices(sp march.ZSliceProcessor, order march.Order) error
	NumXSlices() int
	NumYSlices() int
	NumZSlices() int
}

// Slice voxelizes the slicer's scene into baseFilename + ".binvox".
func Slice(baseFilename string, slicer Slicer) error {
	filename := baseFilename + ".binvox"

	min, max := slicer.MBB()
	scale := float64(max[2] - min[2])
	b := binvox.New(
		slicer.NumXSlices(),
		slicer.NumYSlices(),
		slicer.NumZSlices(),
		float64(min[0]),
		float64(min[1]),
		float64(min[2]),
		scale,
		false,
	)

	c := new(b)

	log.Printf("Slicing %vx%vx%v voxels...", b.NX, b.NY, b.NZ)
	if err := slicer.RenderZSlices(c, march.MinToMax); err != nil {
		return fmt.Errorf("RenderZSlices: %w", err)
	}

	log.Printf("Writing: %v (%v voxels inside)", filename, c.count)
	if err := b.Write(filename, 0, 0, 0, b.NX, b.NY, b.NZ); err != nil {
		return fmt.Errorf("Write: %w", err)
	}

	return nil
}

// client collects the inside voxels of each slice into a BinVOX.
type client struct {
	b     *binvox.BinVOX
	count int
}

// client implements the ZSliceProcessor interface.
var _ march.ZSliceProcessor = &client{}

// new returns a new slice-to-binvox client.
func new(b *binvox.BinVOX) *client {
	return &client{b: b}
}

func (c *client) ProcessZSlice(sliceNum int, z, voxelRadius float32, img image.Image) error {
	b := img.Bounds()
	for v := b.Min.Y; v < b.Max.Y; v++ {
		for u := b.Min.X; u < b.Max.X; u++ {
			if r, _, _, _ := img.At(u, v).RGBA(); r > 0 {
				c.b.Add(u-b.Min.X, v-b.Min.Y, sliceNum)
				c.count++
			}
		}
	}
	return nil
}
