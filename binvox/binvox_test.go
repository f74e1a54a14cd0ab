package binvox

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/gmlewis/fractal-renderer/march"
	"github.com/gmlewis/stldice/v4/binvox"
)

type mockSlicer struct {
	nx, ny, nz int
}

func (m *mockSlicer) MBB() (min, max [3]float32) {
	return [3]float32{0, 0, 0}, [3]float32{float32(m.nx), float32(m.ny), float32(m.nz)}
}
func (m *mockSlicer) RenderZSlices(sp march.ZSliceProcessor, order march.Order) error {
	img := image.NewGray(image.Rect(0, 0, m.nx, m.ny))
	for y := 0; y < m.ny; y++ {
		for x := 0; x < m.nx; x++ {
			img.Set(x, y, color.White)
		}
	}

	for i := 0; i < m.nz; i++ {
		if err := sp.ProcessZSlice(i, float32(i)+0.5, 0.5, img); err != nil {
			return err
		}
	}
	return nil
}
func (m *mockSlicer) NumXSlices() int { return m.nx }
func (m *mockSlicer) NumYSlices() int { return m.ny }
func (m *mockSlicer) NumZSlices() int { return m.nz }

func TestSliceSolid(t *testing.T) {
	slicer := &mockSlicer{nx: 3, ny: 3, nz: 3}

	base := filepath.Join(t.TempDir(), "test-solid")
	if err := Slice(base, slicer); err != nil {
		t.Fatalf("Slice failed: %v", err)
	}

	b, err := binvox.Read(base+".binvox", 0, 0, 0, 0, 0, 0)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	count := len(b.WhiteVoxels)
	expected := 27
	if count != expected {
		t.Errorf("Expected %v voxels, got %v", expected, count)
	}

	if b.NX != 3 || b.NY != 3 || b.NZ != 3 {
		t.Errorf("Expected dimensions 3x3x3, got %vx%vx%v", b.NX, b.NY, b.NZ)
	}
}

func TestSliceSphere(t *testing.T) {
	slicer, err := march.NewSlicer(march.Sphere{Radius: 0.5}, [3]float32{-0.5, -0.5, -0.5}, [3]float32{0.5, 0.5, 0.5}, 0.25)
	if err != nil {
		t.Fatalf("NewSlicer: %v", err)
	}

	base := filepath.Join(t.TempDir(), "sphere")
	if err := Slice(base, slicer); err != nil {
		t.Fatalf("Slice failed: %v", err)
	}

	b, err := binvox.Read(base+".binvox", 0, 0, 0, 0, 0, 0)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if b.NX != 4 || b.NY != 4 || b.NZ != 4 {
		t.Errorf("Expected dimensions 4x4x4, got %vx%vx%v", b.NX, b.NY, b.NZ)
	}
	if got, want := len(b.WhiteVoxels), 32; got != want {
		t.Errorf("Expected %v voxels, got %v", want, got)
	}
}
