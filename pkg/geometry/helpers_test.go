package geometry

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

var approx = cmpopts.EquateApprox(0, tol)

// mustPanic runs fn and fails unless it panics with an error wrapping want.
func mustPanic(t *testing.T, want error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic wrapping %v, got none", want)
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("expected error panic, got %T: %v", r, r)
		}
		if !errors.Is(err, want) {
			t.Fatalf("expected panic wrapping %v, got %v", want, err)
		}
	}()
	fn()
}

func assertVec(t *testing.T, name string, want, got r3.Vec) {
	t.Helper()
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
	}
}

func assertDense(t *testing.T, name string, want, got mat.Matrix) {
	t.Helper()
	if !mat.EqualApprox(want, got, tol) {
		t.Errorf("%s mismatch:\nwant\n%v\ngot\n%v", name,
			mat.Formatted(want, mat.Squeeze()), mat.Formatted(got, mat.Squeeze()))
	}
}

// assertCongruent checks that the homogeneous mirror matches the affine
// transform and that spacing matches its column norms.
func assertCongruent(t *testing.T, g *Geometry) {
	t.Helper()
	assertDense(t, "homogeneous mirror", g.IndexToWorldTransform().Homogeneous(), g.Matrix())
	for j, s := range vecSlice(g.Spacing()) {
		if s <= 0 {
			t.Errorf("spacing[%d] = %g, want > 0", j, s)
		}
		if n := r3.Norm(g.MatrixColumn(j)); cmp.Diff(n, s, approx) != "" {
			t.Errorf("spacing[%d] = %g, column norm %g", j, s, n)
		}
	}
}

// rotatedTransform returns a transform rotated 30 degrees about Z with
// spacing (2, 3, 4) and offset (10, -5, 7).
func rotatedTransform() *AffineTransform {
	c, s := 0.8660254037844387, 0.5
	linear := mat.NewDense(3, 3, []float64{
		2 * c, -3 * s, 0,
		2 * s, 3 * c, 0,
		0, 0, 4,
	})
	return NewAffineTransform(linear, r3.Vec{X: 10, Y: -5, Z: 7})
}
