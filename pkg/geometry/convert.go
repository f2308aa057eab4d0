package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// IndexToWorld maps an index-space point to world space.
func (g *Geometry) IndexToWorld(p r3.Vec) r3.Vec {
	return g.transform.TransformPoint(p)
}

// IndexToWorldVector maps an index-space vector to world space.
func (g *Geometry) IndexToWorldVector(v r3.Vec) r3.Vec {
	return g.transform.TransformVector(v)
}

// WorldToIndex maps a world-space point to index space. It panics with
// ErrSingularTransform if the transform cannot be inverted.
func (g *Geometry) WorldToIndex(p r3.Vec) r3.Vec {
	return g.worldToIndex().TransformPoint(p)
}

// WorldToIndexVector maps a world-space vector to index space.
func (g *Geometry) WorldToIndexVector(v r3.Vec) r3.Vec {
	return g.worldToIndex().TransformVector(v)
}

// worldToIndex returns the cached inverse, recomputing it when g has been
// modified since it was built. Nothing is cached on failure.
func (g *Geometry) worldToIndex() *AffineTransform {
	if g.inverse != nil && g.inverseVersion == g.version {
		return g.inverse
	}
	inv, err := g.transform.Inverse()
	if err != nil {
		panic(fmt.Errorf("%w; matrix was %v", err, g.transform))
	}
	g.inversions++
	g.inverse = inv
	g.inverseVersion = g.version
	return inv
}

// IsInside reports whether the world point p lies in the bounding box.
// Both ends of each axis are inclusive.
func (g *Geometry) IsInside(p r3.Vec) bool {
	return g.IsIndexInside(g.WorldToIndex(p))
}

// IsIndexInside reports whether the index point lies in the bounding box.
func (g *Geometry) IsIndexInside(index r3.Vec) bool {
	return g.bounds.IsInside(index)
}
