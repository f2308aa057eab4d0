package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// BoundingBox is an axis-aligned box in index space. Min is component-wise
// less than or equal to Max.
type BoundingBox struct {
	Min, Max r3.Vec
}

// NewBoundingBox builds a box from axis-paired bounds
// {xmin, xmax, ymin, ymax, zmin, zmax}. Swapped pairs are reordered.
func NewBoundingBox(bounds [6]float64) BoundingBox {
	return BoundingBox{
		Min: r3.Vec{
			X: math.Min(bounds[0], bounds[1]),
			Y: math.Min(bounds[2], bounds[3]),
			Z: math.Min(bounds[4], bounds[5]),
		},
		Max: r3.Vec{
			X: math.Max(bounds[0], bounds[1]),
			Y: math.Max(bounds[2], bounds[3]),
			Z: math.Max(bounds[4], bounds[5]),
		},
	}
}

// boundingBoxOf returns the smallest box containing every point.
func boundingBoxOf(points []r3.Vec) BoundingBox {
	b := BoundingBox{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min = r3.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)}
		b.Max = r3.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)}
	}
	return b
}

// Bounds returns {xmin, xmax, ymin, ymax, zmin, zmax}.
func (b BoundingBox) Bounds() [6]float64 {
	return [6]float64{b.Min.X, b.Max.X, b.Min.Y, b.Max.Y, b.Min.Z, b.Max.Z}
}

// Center returns the centroid of the box.
func (b BoundingBox) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// Extent returns the edge length along axis.
func (b BoundingBox) Extent(axis int) float64 {
	checkAxis(axis)
	bounds := b.Bounds()
	return bounds[2*axis+1] - bounds[2*axis]
}

// IsInside reports whether p lies in the closed box.
func (b BoundingBox) IsInside(p r3.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// corner selects min or max per axis; front picks min.
func (b BoundingBox) corner(xFront, yFront, zFront bool) r3.Vec {
	pick := func(front bool, lo, hi float64) float64 {
		if front {
			return lo
		}
		return hi
	}
	return r3.Vec{
		X: pick(xFront, b.Min.X, b.Max.X),
		Y: pick(yFront, b.Min.Y, b.Max.Y),
		Z: pick(zFront, b.Min.Z, b.Max.Z),
	}
}

// SetBounds replaces the index-space bounding box. It always counts as a
// modification.
func (g *Geometry) SetBounds(bounds [6]float64) {
	g.bounds = NewBoundingBox(bounds)
	g.modified()
}

// Bounds returns the index-space bounds {xmin, xmax, ymin, ymax, zmin, zmax}.
func (g *Geometry) Bounds() [6]float64 {
	return g.bounds.Bounds()
}

// BoundingBox returns the index-space bounding box.
func (g *Geometry) BoundingBox() BoundingBox {
	return g.bounds
}

// Extent returns the bounding box edge length along axis in index units.
func (g *Geometry) Extent(axis int) float64 {
	return g.bounds.Extent(axis)
}

// CornerPoint returns corner id of the bounding box in world space.
// Bit 0 of id selects max X, bit 1 max Y and bit 2 max Z, so ids 0-7
// enumerate every corner once.
func (g *Geometry) CornerPoint(id int) r3.Vec {
	if id < 0 || id > 7 {
		fault(ErrCornerOutOfRange, "got %d", id)
	}
	return g.CornerPointByFlags(id&1 == 0, id&2 == 0, id&4 == 0)
}

// CornerPointByFlags returns the world-space corner picking, for each axis,
// the minimum bound when the flag is set and the maximum otherwise.
func (g *Geometry) CornerPointByFlags(xFront, yFront, zFront bool) r3.Vec {
	return g.IndexToWorld(g.bounds.corner(xFront, yFront, zFront))
}

// Center returns the bounding box centroid in world space.
func (g *Geometry) Center() r3.Vec {
	return g.IndexToWorld(g.bounds.Center())
}

// DiagonalLength2 returns the squared world-space length of the box diagonal.
func (g *Geometry) DiagonalLength2() float64 {
	return r3.Norm2(r3.Sub(g.CornerPoint(7), g.CornerPoint(0)))
}

// DiagonalLength returns the world-space length of the box diagonal.
func (g *Geometry) DiagonalLength() float64 {
	return math.Sqrt(g.DiagonalLength2())
}

// AxisVector returns the world-space edge of the bounding volume along axis.
func (g *Geometry) AxisVector(axis int) r3.Vec {
	return r3.Scale(g.bounds.Extent(axis), g.transform.Column(axis))
}

// Is2DConvertable reports whether the geometry can be treated as 2D without
// loss: unit Z spacing, zero Z origin and no coupling between Z and the X/Y
// plane. The check is exact.
func (g *Geometry) Is2DConvertable() bool {
	if g.spacing.Z != 1 || g.transform.offset.Z != 0 {
		return false
	}
	col0 := g.transform.Column(0)
	col1 := g.transform.Column(1)
	col2 := g.transform.Column(2)
	return col0.Z == 0 && col1.Z == 0 && col2 == r3.Vec{Z: 1}
}

// BoundingBoxRelativeToTransform returns the box enclosing the eight world
// corners of g, expressed in the index frame of t. A nil t uses world space.
func (g *Geometry) BoundingBoxRelativeToTransform(t *AffineTransform) BoundingBox {
	var inv *AffineTransform
	if t != nil {
		var err error
		if inv, err = t.Inverse(); err != nil {
			panic(err)
		}
	}
	corners := make([]r3.Vec, 8)
	for id := range corners {
		corners[id] = g.CornerPoint(id)
		if inv != nil {
			corners[id] = inv.TransformPoint(corners[id])
		}
	}
	return boundingBoxOf(corners)
}
