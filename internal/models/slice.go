package models

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"voxelgeom/pkg/geometry"
)

// Slice represents a single plane of a volume with its own geometry
type Slice struct {
	// Data is the slice data in row-major order
	Data []float64

	// Width, Height are the dimensions of the slice in voxels
	Width, Height int

	// Index is the position of this slice in the sequence
	Index int

	// Thickness is the physical thickness of the slice in mm
	Thickness float64

	// Position is the physical position of the slice along the volume's
	// third axis
	Position float64

	// Geometry is a copy of the volume geometry moved to the slice's first
	// voxel and bounded to a single plane
	Geometry *geometry.Geometry
}

// ExtractSlice copies plane z out of the volume together with a geometry that
// places it in the same world frame
func (v *Volume) ExtractSlice(z int) (*Slice, error) {
	if z < 0 || z >= v.Depth {
		return nil, fmt.Errorf("slice index %d out of range [0,%d)", z, v.Depth)
	}

	data := make([]float64, v.Width*v.Height)
	copy(data, v.Data[v.offset(0, 0, z):v.offset(0, 0, z+1)])

	g := v.Geometry.Clone()
	origin := v.Geometry.IndexToWorld(r3.Vec{Z: float64(z)})
	g.SetOrigin(origin)
	g.SetBounds([6]float64{0, float64(v.Width), 0, float64(v.Height), 0, 1})

	normal := r3.Unit(v.Geometry.MatrixColumn(2))
	return &Slice{
		Data:      data,
		Width:     v.Width,
		Height:    v.Height,
		Index:     z,
		Thickness: v.Geometry.Spacing().Z,
		Position:  r3.Dot(origin, normal),
		Geometry:  g,
	}, nil
}
