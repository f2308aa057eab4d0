package models

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/spatial/r3"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func sequence(n int) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i)
	}
	return data
}

func TestNewVolume(t *testing.T) {
	v, err := NewVolume(4, 3, 2, nil)
	if err != nil {
		t.Fatalf("NewVolume failed: %v", err)
	}
	if len(v.Data) != 24 {
		t.Errorf("Expected 24 voxels, got %d", len(v.Data))
	}
	if got, want := v.Geometry.Bounds(), [6]float64{0, 4, 0, 3, 0, 2}; got != want {
		t.Errorf("Expected bounds %v, got %v", want, got)
	}

	if _, err := NewVolume(0, 3, 2, nil); err == nil {
		t.Error("Expected error for zero width")
	}
	if _, err := NewVolume(2, 2, 2, make([]float64, 7)); err == nil {
		t.Error("Expected error for short data")
	}
}

func TestAtAndSet(t *testing.T) {
	v, _ := NewVolume(3, 2, 2, sequence(12))

	if got := v.At(2, 1, 1); got != 11 {
		t.Errorf("Expected 11, got %f", got)
	}
	v.Set(0, 1, 0, -5)
	if got := v.Data[3]; got != -5 {
		t.Errorf("Set wrote the wrong voxel, data[3] = %f", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for out-of-range voxel")
		}
	}()
	v.At(3, 0, 0)
}

func TestValueAt(t *testing.T) {
	v, _ := NewVolume(2, 2, 2, sequence(8))
	v.Geometry.SetSpacing(r3.Vec{X: 2, Y: 2, Z: 2})
	v.Geometry.SetOrigin(r3.Vec{X: 10})

	testCases := []struct {
		world  r3.Vec
		value  float64
		inside bool
	}{
		{r3.Vec{X: 13, Y: 1, Z: 3}, 5, true},
		{r3.Vec{X: 10, Y: 0, Z: 0}, 0, true},
		// Upper bound is inclusive and folds into the last voxel
		{r3.Vec{X: 14, Y: 4, Z: 4}, 7, true},
		{r3.Vec{X: 9, Y: 0, Z: 0}, 0, false},
		{r3.Vec{X: 11, Y: 5, Z: 1}, 0, false},
	}

	for _, tc := range testCases {
		got, ok := v.ValueAt(tc.world)
		if ok != tc.inside || got != tc.value {
			t.Errorf("ValueAt(%v) = %f, %v; want %f, %v", tc.world, got, ok, tc.value, tc.inside)
		}
	}
}

func TestValueAtFollowsGeometry(t *testing.T) {
	v, _ := NewVolume(3, 3, 3, sequence(27))
	v.Geometry.SetSpacing(r3.Vec{X: 0.5, Y: 1.5, Z: 3})
	v.Geometry.Translate(r3.Vec{X: -7, Y: 2, Z: 40})

	for z := 0; z < v.Depth; z++ {
		for y := 0; y < v.Height; y++ {
			for x := 0; x < v.Width; x++ {
				got, ok := v.ValueAt(v.VoxelCenter(x, y, z))
				if !ok || got != v.At(x, y, z) {
					t.Errorf("Voxel (%d,%d,%d): sampled %f, %v; stored %f", x, y, z, got, ok, v.At(x, y, z))
				}
			}
		}
	}
}

func TestStats(t *testing.T) {
	v, _ := NewVolume(2, 2, 1, []float64{1, 2, 3, 4})

	mean, std := v.Stats()
	if mean != 2.5 {
		t.Errorf("Expected mean 2.5, got %f", mean)
	}
	if want := math.Sqrt(5.0 / 3.0); math.Abs(std-want) > 1e-12 {
		t.Errorf("Expected std %f, got %f", want, std)
	}
}

func TestPhysicalSize(t *testing.T) {
	v, _ := NewVolume(10, 20, 5, nil)
	v.Geometry.SetSpacing(r3.Vec{X: 0.5, Y: 0.25, Z: 3})

	if diff := cmp.Diff(r3.Vec{X: 5, Y: 5, Z: 15}, v.PhysicalSize(), approx); diff != "" {
		t.Errorf("Physical size mismatch (-want +got):\n%s", diff)
	}
}
