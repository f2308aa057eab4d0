package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"voxelgeom/pkg/geometry"
)

// Volume is a voxel grid placed in world space by a geometry
type Volume struct {
	// Data is the 3D volume data as a 1D array in row-major order
	Data []float64

	// Width is the width of the volume in voxels
	Width int

	// Height is the height of the volume in voxels
	Height int

	// Depth is the depth of the volume in voxels
	Depth int

	// Geometry maps voxel indices to world coordinates. Voxel (i,j,k)
	// covers the index-space cell [i,i+1)x[j,j+1)x[k,k+1).
	Geometry *geometry.Geometry
}

// NewVolume creates a volume with an identity geometry whose bounds cover
// every voxel. A nil data slice allocates a zeroed grid.
func NewVolume(width, height, depth int, data []float64) (*Volume, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("invalid volume dimensions %dx%dx%d", width, height, depth)
	}
	n := width * height * depth
	if data == nil {
		data = make([]float64, n)
	}
	if len(data) != n {
		return nil, fmt.Errorf("volume data has %d values, expected %d", len(data), n)
	}

	g := geometry.New()
	g.SetBounds([6]float64{0, float64(width), 0, float64(height), 0, float64(depth)})

	return &Volume{
		Data:     data,
		Width:    width,
		Height:   height,
		Depth:    depth,
		Geometry: g,
	}, nil
}

func (v *Volume) offset(x, y, z int) int {
	return z*v.Width*v.Height + y*v.Width + x
}

// Contains reports whether (x,y,z) addresses a voxel of the grid
func (v *Volume) Contains(x, y, z int) bool {
	return x >= 0 && x < v.Width && y >= 0 && y < v.Height && z >= 0 && z < v.Depth
}

// At returns the voxel value at (x,y,z)
func (v *Volume) At(x, y, z int) float64 {
	if !v.Contains(x, y, z) {
		panic(fmt.Sprintf("voxel (%d,%d,%d) out of range %dx%dx%d", x, y, z, v.Width, v.Height, v.Depth))
	}
	return v.Data[v.offset(x, y, z)]
}

// Set stores a voxel value at (x,y,z)
func (v *Volume) Set(x, y, z int, value float64) {
	if !v.Contains(x, y, z) {
		panic(fmt.Sprintf("voxel (%d,%d,%d) out of range %dx%dx%d", x, y, z, v.Width, v.Height, v.Depth))
	}
	v.Data[v.offset(x, y, z)] = value
}

// VoxelCenter returns the world position of the center of voxel (x,y,z)
func (v *Volume) VoxelCenter(x, y, z int) r3.Vec {
	return v.Geometry.IndexToWorld(r3.Vec{X: float64(x) + 0.5, Y: float64(y) + 0.5, Z: float64(z) + 0.5})
}

// ValueAt samples the nearest voxel at a world position. The second result
// is false when the point lies outside the geometry's bounds.
func (v *Volume) ValueAt(world r3.Vec) (float64, bool) {
	index := v.Geometry.WorldToIndex(world)
	if !v.Geometry.IsIndexInside(index) {
		return 0, false
	}
	x := clampIndex(index.X, v.Width)
	y := clampIndex(index.Y, v.Height)
	z := clampIndex(index.Z, v.Depth)
	return v.Data[v.offset(x, y, z)], true
}

// clampIndex maps a continuous index onto its cell, folding the inclusive
// upper bound into the last cell
func clampIndex(f float64, n int) int {
	i := int(math.Floor(f))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Stats returns the mean and sample standard deviation of the voxel values
func (v *Volume) Stats() (mean, std float64) {
	return stat.MeanStdDev(v.Data, nil)
}

// PhysicalSize returns the world-space extent of the volume along each axis in mm
func (v *Volume) PhysicalSize() r3.Vec {
	return r3.Vec{
		X: v.Geometry.ExtentInMM(0),
		Y: v.Geometry.ExtentInMM(1),
		Z: v.Geometry.ExtentInMM(2),
	}
}
