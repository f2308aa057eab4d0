package geometry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// TestUnitCubeScenario checks the derived quantities of the default geometry
func TestUnitCubeScenario(t *testing.T) {
	g := New()

	if got := g.DiagonalLength(); math.Abs(got-math.Sqrt(3)) > tol {
		t.Errorf("Expected diagonal sqrt(3), got %f", got)
	}
	if got := g.DiagonalLength2(); math.Abs(got-3) > tol {
		t.Errorf("Expected squared diagonal 3, got %f", got)
	}
	assertVec(t, "center", r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, g.Center())
	if !g.IsInside(r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}) {
		t.Error("Center should be inside")
	}
	if g.IsInside(r3.Vec{X: 2}) {
		t.Error("(2,0,0) should be outside")
	}
}

func TestNewBoundingBoxOrdersPairs(t *testing.T) {
	b := NewBoundingBox([6]float64{5, -1, 2, 3, 9, 0})

	if got, want := b.Bounds(), [6]float64{-1, 5, 2, 3, 0, 9}; got != want {
		t.Errorf("Expected bounds %v, got %v", want, got)
	}
	assertVec(t, "center", r3.Vec{X: 2, Y: 2.5, Z: 4.5}, b.Center())
	for axis, want := range []float64{6, 1, 9} {
		if got := b.Extent(axis); got != want {
			t.Errorf("Axis %d: expected extent %f, got %f", axis, want, got)
		}
	}
}

func TestSetBoundsBumpsVersion(t *testing.T) {
	g := New()
	v := g.Version()

	g.SetBounds(g.Bounds())

	if g.Version() != v+1 {
		t.Errorf("SetBounds should always bump the version, got %d -> %d", v, g.Version())
	}
}

// TestCornerEnumeration verifies that ids 0-7 cover the 8 corners once each,
// with bit 0 selecting X, bit 1 selecting Y and bit 2 selecting Z
func TestCornerEnumeration(t *testing.T) {
	g := New()
	g.SetBounds([6]float64{1, 2, 10, 20, 100, 200})

	seen := make(map[r3.Vec]int)
	for id := 0; id < 8; id++ {
		p := g.CornerPoint(id)
		if prev, dup := seen[p]; dup {
			t.Errorf("Corner %d duplicates corner %d at %v", id, prev, p)
		}
		seen[p] = id

		want := r3.Vec{X: 1, Y: 10, Z: 100}
		if id&1 != 0 {
			want.X = 2
		}
		if id&2 != 0 {
			want.Y = 20
		}
		if id&4 != 0 {
			want.Z = 200
		}
		assertVec(t, "corner", want, p)
		assertVec(t, "corner by flags", p, g.CornerPointByFlags(id&1 == 0, id&2 == 0, id&4 == 0))
	}

	// Deterministic across calls
	for id := 0; id < 8; id++ {
		if g.CornerPoint(id) != g.CornerPoint(id) {
			t.Errorf("Corner %d is not stable", id)
		}
	}

	mustPanic(t, ErrCornerOutOfRange, func() { g.CornerPoint(8) })
	mustPanic(t, ErrCornerOutOfRange, func() { g.CornerPoint(-1) })
}

func TestCornersInWorldSpace(t *testing.T) {
	g := New()
	g.SetIndexToWorldTransform(rotatedTransform())
	g.SetBounds([6]float64{0, 2, 0, 3, 0, 4})

	for id := 0; id < 8; id++ {
		idx := r3.Vec{}
		if id&1 != 0 {
			idx.X = 2
		}
		if id&2 != 0 {
			idx.Y = 3
		}
		if id&4 != 0 {
			idx.Z = 4
		}
		assertVec(t, "corner", rotatedTransform().TransformPoint(idx), g.CornerPoint(id))
	}

	// Spacing (2,3,4) times extents (2,3,4)
	want := math.Sqrt(4*4 + 9*9 + 16*16)
	if got := g.DiagonalLength(); math.Abs(got-want) > tol {
		t.Errorf("Expected diagonal %f, got %f", want, got)
	}
	assertVec(t, "center", rotatedTransform().TransformPoint(r3.Vec{X: 1, Y: 1.5, Z: 2}), g.Center())
}

func TestAxisVector(t *testing.T) {
	g := New()
	g.SetIndexToWorldTransform(rotatedTransform())
	g.SetBounds([6]float64{0, 10, -2, 2, 5, 6})

	extents := []float64{10, 4, 1}
	for axis, e := range extents {
		want := r3.Scale(e, rotatedTransform().Column(axis))
		assertVec(t, "axis vector", want, g.AxisVector(axis))
		if got, want := r3.Norm(g.AxisVector(axis)), g.ExtentInMM(axis); math.Abs(got-want) > tol {
			t.Errorf("Axis %d: |axis vector| %f, extent in mm %f", axis, got, want)
		}
	}
	mustPanic(t, ErrAxisOutOfRange, func() { g.AxisVector(3) })
	mustPanic(t, ErrAxisOutOfRange, func() { g.Extent(-1) })
}

func TestIs2DConvertable(t *testing.T) {
	testCases := []struct {
		name   string
		setup  func(g *Geometry)
		expect bool
	}{
		{"identity", func(g *Geometry) {}, true},
		{"in-plane spacing and origin", func(g *Geometry) {
			g.SetSpacing(r3.Vec{X: 0.5, Y: 3, Z: 1})
			g.SetOrigin(r3.Vec{X: 4, Y: -2})
		}, true},
		{"z spacing", func(g *Geometry) { g.SetSpacing(r3.Vec{X: 1, Y: 1, Z: 2}) }, false},
		{"z origin", func(g *Geometry) { g.SetOrigin(r3.Vec{Z: 1e-9}) }, false},
		{"in-plane rotation", func(g *Geometry) {
			g.SetIndexToWorldTransform(NewAffineTransform(mat.NewDense(3, 3, []float64{
				0, -1, 0,
				1, 0, 0,
				0, 0, 1,
			}), r3.Vec{X: 3}))
		}, true},
		{"tilted", func(g *Geometry) {
			g.ExecuteOperation(RotateOp{Axis: r3.Vec{X: 1}, AngleDegrees: 10})
		}, false},
		{"x couples into z", func(g *Geometry) {
			g.SetIndexToWorldTransform(NewAffineTransform(mat.NewDense(3, 3, []float64{
				1, 0, 0,
				0, 1, 0,
				0.1, 0, 1,
			}), r3.Vec{}))
		}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := New()
			tc.setup(g)
			if got := g.Is2DConvertable(); got != tc.expect {
				t.Errorf("Is2DConvertable() = %v, want %v (transform %v)", got, tc.expect, g.IndexToWorldTransform())
			}
		})
	}
}

func TestBoundingBoxRelativeToTransform(t *testing.T) {
	g := New()
	g.SetBounds([6]float64{0, 2, 0, 4, 0, 6})
	g.SetOrigin(r3.Vec{X: 10, Y: 10, Z: 10})

	world := g.BoundingBoxRelativeToTransform(nil)
	assertVec(t, "world min", r3.Vec{X: 10, Y: 10, Z: 10}, world.Min)
	assertVec(t, "world max", r3.Vec{X: 12, Y: 14, Z: 16}, world.Max)

	// Relative to its own transform the box is the index-space box
	own := g.BoundingBoxRelativeToTransform(g.IndexToWorldTransform())
	assertVec(t, "own min", r3.Vec{}, own.Min)
	assertVec(t, "own max", r3.Vec{X: 2, Y: 4, Z: 6}, own.Max)

	g.ExecuteOperation(RotateOp{Axis: r3.Vec{Z: 1}, Center: r3.Vec{X: 10, Y: 10}, AngleDegrees: 90})
	rotated := g.BoundingBoxRelativeToTransform(nil)
	assertVec(t, "rotated min", r3.Vec{X: 6, Y: 10, Z: 10}, rotated.Min)
	assertVec(t, "rotated max", r3.Vec{X: 10, Y: 12, Z: 16}, rotated.Max)
}
