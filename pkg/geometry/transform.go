package geometry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// AffineTransform maps index coordinates to world coordinates as
//
//	world = Linear * index + Offset
//
// An AffineTransform is immutable once built: every method returns a new
// value, so a transform may be shared between geometries.
type AffineTransform struct {
	linear *mat.Dense
	offset r3.Vec
}

// IdentityTransform returns the transform with identity linear part and
// zero offset.
func IdentityTransform() *AffineTransform {
	return &AffineTransform{linear: identity3(), offset: r3.Vec{}}
}

// NewAffineTransform builds a transform from a 3x3 linear part and an
// offset. The matrix is copied.
func NewAffineTransform(linear mat.Matrix, offset r3.Vec) *AffineTransform {
	if r, c := linear.Dims(); r != 3 || c != 3 {
		fault(ErrMatrixShape, "linear part is %dx%d, want 3x3", r, c)
	}
	return &AffineTransform{linear: mat.DenseCopyOf(linear), offset: offset}
}

// AffineFromHomogeneous extracts the affine part of a 4x4 homogeneous
// matrix. The bottom row is ignored.
func AffineFromHomogeneous(m mat.Matrix) (*AffineTransform, error) {
	if r, c := m.Dims(); r != 4 || c != 4 {
		return nil, fmt.Errorf("%w: homogeneous matrix is %dx%d, want 4x4", ErrMatrixShape, r, c)
	}
	linear := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			linear.Set(i, j, m.At(i, j))
		}
	}
	return &AffineTransform{
		linear: linear,
		offset: r3.Vec{X: m.At(0, 3), Y: m.At(1, 3), Z: m.At(2, 3)},
	}, nil
}

// Linear returns a copy of the 3x3 linear part.
func (t *AffineTransform) Linear() *mat.Dense {
	return mat.DenseCopyOf(t.linear)
}

// Offset returns the translation, i.e. the world position of index (0,0,0).
func (t *AffineTransform) Offset() r3.Vec {
	return t.offset
}

// Column returns column j of the linear part.
func (t *AffineTransform) Column(j int) r3.Vec {
	checkAxis(j)
	return r3.Vec{X: t.linear.At(0, j), Y: t.linear.At(1, j), Z: t.linear.At(2, j)}
}

// TransformPoint maps a point, offset included.
func (t *AffineTransform) TransformPoint(p r3.Vec) r3.Vec {
	return r3.Add(mulVec(t.linear, p), t.offset)
}

// TransformVector maps a direction; the offset does not apply.
func (t *AffineTransform) TransformVector(v r3.Vec) r3.Vec {
	return mulVec(t.linear, v)
}

// Inverse returns the world-to-index transform. The error wraps
// ErrSingularTransform when the linear part has no finite inverse.
func (t *AffineTransform) Inverse() (*AffineTransform, error) {
	var inv mat.Dense
	if err := inv.Inverse(t.linear); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, fmt.Errorf("%w: %v", ErrSingularTransform, err)
		}
		Logger().Warn("geometry: ill-conditioned index-to-world transform", "condition", float64(cond))
	}
	if !allFinite(&inv) {
		return nil, fmt.Errorf("%w: inverse has non-finite entries", ErrSingularTransform)
	}
	return &AffineTransform{
		linear: &inv,
		offset: r3.Scale(-1, mulVec(&inv, t.offset)),
	}, nil
}

// Compose combines t with other. With pre set, other is applied first and
// t second; otherwise t is applied first and other second.
func (t *AffineTransform) Compose(other *AffineTransform, pre bool) *AffineTransform {
	first, second := t, other
	if pre {
		first, second = other, t
	}
	var linear mat.Dense
	linear.Mul(second.linear, first.linear)
	return &AffineTransform{
		linear: &linear,
		offset: r3.Add(mulVec(second.linear, first.offset), second.offset),
	}
}

// Homogeneous returns the 4x4 matrix form of t.
func (t *AffineTransform) Homogeneous() *mat.Dense {
	h := mat.NewDense(4, 4, nil)
	h.Slice(0, 3, 0, 3).(*mat.Dense).Copy(t.linear)
	h.Set(0, 3, t.offset.X)
	h.Set(1, 3, t.offset.Y)
	h.Set(2, 3, t.offset.Z)
	h.Set(3, 3, 1)
	return h
}

// String renders t as [[row0 ][row1 ][row2 ]][offset ].
func (t *AffineTransform) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < 3; i++ {
		b.WriteByte('[')
		for j := 0; j < 3; j++ {
			b.WriteString(strconv.FormatFloat(t.linear.At(i, j), 'g', -1, 64))
			b.WriteByte(' ')
		}
		b.WriteByte(']')
	}
	b.WriteString("][")
	for _, v := range vecSlice(t.offset) {
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		b.WriteByte(' ')
	}
	b.WriteByte(']')
	return b.String()
}

func (t *AffineTransform) equalExact(other *AffineTransform) bool {
	return t.offset == other.offset && mat.Equal(t.linear, other.linear)
}

func identity3() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
}

func mulVec(m mat.Matrix, v r3.Vec) r3.Vec {
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(3, vecSlice(v)))
	return r3.Vec{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}

func vecSlice(v r3.Vec) []float64 {
	return []float64{v.X, v.Y, v.Z}
}

func allFinite(m mat.Matrix) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// translation4 returns the homogeneous translation by v.
func translation4(v r3.Vec) *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		1, 0, 0, v.X,
		0, 1, 0, v.Y,
		0, 0, 1, v.Z,
		0, 0, 0, 1,
	})
}

// product returns ms[0] * ms[1] * ... * ms[n-1].
func product(ms ...mat.Matrix) *mat.Dense {
	out := mat.DenseCopyOf(ms[0])
	for _, m := range ms[1:] {
		var next mat.Dense
		next.Mul(out, m)
		out = &next
	}
	return out
}
