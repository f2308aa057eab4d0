package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mismatch describes one component that differs between two geometries.
type Mismatch struct {
	Component   string
	Left, Right any
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s differs: left %v, right %v", m.Component, m.Left, m.Right)
}

// Compare checks spacing, origin, the three axis vectors, the three
// extents, the bounds and the linear part of the transform, each within
// eps, and returns every component that differs. A nil operand yields a
// single mismatch.
func Compare(lhs, rhs *Geometry, eps float64) []Mismatch {
	if lhs == nil || rhs == nil {
		return []Mismatch{nilMismatch("geometry", lhs == nil, rhs == nil)}
	}

	var out []Mismatch
	if !vecEqual(lhs.Spacing(), rhs.Spacing(), eps) {
		out = append(out, Mismatch{"spacing", lhs.Spacing(), rhs.Spacing()})
	}
	if !vecEqual(lhs.Origin(), rhs.Origin(), eps) {
		out = append(out, Mismatch{"origin", lhs.Origin(), rhs.Origin()})
	}
	for i := 0; i < 3; i++ {
		if l, r := lhs.AxisVector(i), rhs.AxisVector(i); !vecEqual(l, r, eps) {
			out = append(out, Mismatch{fmt.Sprintf("axis vector #%d", i), l, r})
		}
		if l, r := lhs.Extent(i), rhs.Extent(i); !scalar.EqualWithinAbs(l, r, eps) {
			out = append(out, Mismatch{fmt.Sprintf("extent #%d", i), l, r})
		}
	}
	lb, rb := lhs.BoundingBox(), rhs.BoundingBox()
	out = append(out, compareBoundingBox(&lb, &rb, eps)...)
	out = append(out, compareTransform(lhs.transform, rhs.transform, eps)...)
	return out
}

// Equal reports whether lhs and rhs agree on every component checked by
// Compare. With verbose set each differing component is logged at Info level.
func Equal(lhs, rhs *Geometry, eps float64, verbose bool) bool {
	return report(Compare(lhs, rhs, eps), eps, verbose)
}

// EqualTransform compares the linear parts of two transforms element-wise
// within eps. The offset is not compared; Compare reports it as the origin.
// Pass 0 for an exact match.
func EqualTransform(lhs, rhs *AffineTransform, eps float64, verbose bool) bool {
	return report(compareTransform(lhs, rhs, eps), eps, verbose)
}

// EqualBoundingBox compares the six bounds of two boxes within eps.
func EqualBoundingBox(lhs, rhs *BoundingBox, eps float64, verbose bool) bool {
	return report(compareBoundingBox(lhs, rhs, eps), eps, verbose)
}

func compareTransform(lhs, rhs *AffineTransform, eps float64) []Mismatch {
	if lhs == nil || rhs == nil {
		return []Mismatch{nilMismatch("transform", lhs == nil, rhs == nil)}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !scalar.EqualWithinAbs(lhs.linear.At(i, j), rhs.linear.At(i, j), eps) {
				return []Mismatch{{"index-to-world matrix", lhs.String(), rhs.String()}}
			}
		}
	}
	return nil
}

func compareBoundingBox(lhs, rhs *BoundingBox, eps float64) []Mismatch {
	if lhs == nil || rhs == nil {
		return []Mismatch{nilMismatch("bounding box", lhs == nil, rhs == nil)}
	}
	var out []Mismatch
	lb, rb := lhs.Bounds(), rhs.Bounds()
	for i := range lb {
		if !scalar.EqualWithinAbs(lb[i], rb[i], eps) {
			out = append(out, Mismatch{fmt.Sprintf("bound #%d", i), lb[i], rb[i]})
		}
	}
	return out
}

func nilMismatch(component string, leftNil, rightNil bool) Mismatch {
	side := func(isNil bool) any {
		if isNil {
			return "nil"
		}
		return "set"
	}
	return Mismatch{component, side(leftNil), side(rightNil)}
}

func report(mismatches []Mismatch, eps float64, verbose bool) bool {
	if verbose {
		for _, m := range mismatches {
			Logger().Info("geometry: component differs",
				"component", m.Component, "left", m.Left, "right", m.Right, "eps", eps)
		}
	}
	return len(mismatches) == 0
}

func vecEqual(a, b r3.Vec, eps float64) bool {
	return withinAbs(vecSlice(a), vecSlice(b), eps)
}
