// Package geometry maps discrete index coordinates of a spatial data object
// to continuous world coordinates through an invertible affine transform,
// and tracks spacing, origin, index-space bounds and a modification version.
//
// A Geometry is mutable and carries no internal synchronization; the owner
// of a Geometry must serialize access to it. Clone produces an independent
// copy that may be handed to another goroutine.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Eps is the absolute tolerance used by the no-op checks of SetSpacing and
// SetExtentInMM.
const Eps = 1e-12

// TimeBounds is the validity interval of a geometry in the temporal dimension.
type TimeBounds [2]float64

// InfiniteTimeBounds returns (-Inf, +Inf).
func InfiniteTimeBounds() TimeBounds {
	return TimeBounds{math.Inf(-1), math.Inf(1)}
}

// Geometry is the index-to-world frame of a spatial data object.
type Geometry struct {
	// transform is the canonical index-to-world mapping
	transform *AffineTransform

	// matrix mirrors transform in homogeneous form; refreshed by transformChanged
	matrix *mat.Dense

	// spacing is derived from the column norms of the linear part
	spacing r3.Vec

	bounds             BoundingBox
	timeBounds         TimeBounds
	frameOfReferenceID uint
	valid              bool

	version uint64

	inverse        *AffineTransform
	inverseVersion uint64

	// inversions counts inverse recomputations
	inversions int
}

// New returns a geometry with identity transform, unit spacing, zero origin
// and the unit bounding box [0,1]x[0,1]x[0,1].
func New() *Geometry {
	g := &Geometry{valid: true}
	g.Initialize()
	return g
}

// Initialize resets g to the state produced by New, apart from validity.
func (g *Geometry) Initialize() {
	g.bounds = NewBoundingBox([6]float64{0, 1, 0, 1, 0, 1})
	g.timeBounds = InfiniteTimeBounds()
	g.frameOfReferenceID = 0
	g.transform = IdentityTransform()
	g.transformChanged()
}

// Clone returns a deep copy of g. The copy shares no mutable state with g
// and starts with an empty inverse cache.
func (g *Geometry) Clone() *Geometry {
	c := *g
	c.transform = NewAffineTransform(g.transform.linear, g.transform.offset)
	c.matrix = mat.DenseCopyOf(g.matrix)
	c.inverse = nil
	c.inverseVersion = 0
	c.inversions = 0
	return &c
}

// Version returns the modification version. It grows on every state change.
func (g *Geometry) Version() uint64 {
	return g.version
}

func (g *Geometry) modified() {
	g.version++
}

// transformChanged is the single point every transform mutation goes
// through: it re-derives spacing, refreshes the homogeneous mirror and bumps
// the version.
func (g *Geometry) transformChanged() {
	g.spacing = spacingOf(g.transform)
	g.matrix = g.transform.Homogeneous()
	g.modified()
}

// setTransform installs t after checking that every column has a positive
// finite norm.
func (g *Geometry) setTransform(t *AffineTransform) {
	if !validColumns(t) {
		fault(ErrNonPositiveSpacing, "transform %v has a degenerate column", t)
	}
	g.transform = t
	g.transformChanged()
}

func spacingOf(t *AffineTransform) r3.Vec {
	return r3.Vec{
		X: r3.Norm(t.Column(0)),
		Y: r3.Norm(t.Column(1)),
		Z: r3.Norm(t.Column(2)),
	}
}

func validColumns(t *AffineTransform) bool {
	if !allFinite(t.linear) {
		return false
	}
	for _, s := range vecSlice(spacingOf(t)) {
		if !(s > 0) || math.IsInf(s, 0) {
			return false
		}
	}
	return true
}

// Origin returns the world position of index (0,0,0).
func (g *Geometry) Origin() r3.Vec {
	return g.transform.offset
}

// SetOrigin moves the index origin to p. Nothing changes if p equals the
// current origin exactly.
func (g *Geometry) SetOrigin(p r3.Vec) {
	if p == g.transform.offset {
		return
	}
	g.transform = &AffineTransform{linear: g.transform.linear, offset: p}
	g.transformChanged()
}

// Translate shifts the origin by v.
func (g *Geometry) Translate(v r3.Vec) {
	if v == (r3.Vec{}) {
		return
	}
	g.SetOrigin(r3.Add(g.transform.offset, v))
}

// Spacing returns the physical size of one index step along each axis.
func (g *Geometry) Spacing() r3.Vec {
	return g.spacing
}

// SetSpacing rescales each column of the linear part to the requested
// length, keeping its direction. Every component of s must be positive.
func (g *Geometry) SetSpacing(s r3.Vec) {
	if !(s.X > 0 && s.Y > 0 && s.Z > 0) {
		fault(ErrNonPositiveSpacing, "got %v", s)
	}
	if withinAbs(vecSlice(g.spacing), vecSlice(s), Eps) {
		return
	}
	linear := g.transform.Linear()
	for j, sj := range vecSlice(s) {
		col := mat.Col(nil, j, linear)
		floats.Scale(sj/floats.Norm(col, 2), col)
		linear.SetCol(j, col)
	}
	g.setTransform(&AffineTransform{linear: linear, offset: g.transform.offset})
}

// IndexToWorldTransform returns the installed transform. The value is
// immutable and may be retained by the caller.
func (g *Geometry) IndexToWorldTransform() *AffineTransform {
	return g.transform
}

// SetIndexToWorldTransform replaces the transform wholesale and re-derives
// spacing and origin from it. Installing the current transform again is a
// no-op.
func (g *Geometry) SetIndexToWorldTransform(t *AffineTransform) {
	if t == nil {
		fault(ErrNilTransform, "SetIndexToWorldTransform")
	}
	if t == g.transform || t.equalExact(g.transform) {
		return
	}
	g.setTransform(NewAffineTransform(t.linear, t.offset))
}

// SetIndexToWorldTransformByMatrix installs the affine part of a 4x4
// homogeneous matrix.
func (g *Geometry) SetIndexToWorldTransformByMatrix(m mat.Matrix) {
	t, err := AffineFromHomogeneous(m)
	if err != nil {
		panic(err)
	}
	g.SetIndexToWorldTransform(t)
}

// Matrix returns a copy of the homogeneous 4x4 form of the transform.
func (g *Geometry) Matrix() *mat.Dense {
	return mat.DenseCopyOf(g.matrix)
}

// MatrixColumn returns column axis of the linear part.
func (g *Geometry) MatrixColumn(axis int) r3.Vec {
	return g.transform.Column(axis)
}

// Compose combines the current transform with t. With pre set, t is applied
// before the current transform; otherwise after it.
func (g *Geometry) Compose(t *AffineTransform, pre bool) {
	if t == nil {
		fault(ErrNilTransform, "Compose")
	}
	g.setTransform(g.transform.Compose(t, pre))
}

// ComposeMatrix is Compose for a 4x4 homogeneous matrix.
func (g *Geometry) ComposeMatrix(m mat.Matrix, pre bool) {
	t, err := AffineFromHomogeneous(m)
	if err != nil {
		panic(err)
	}
	g.Compose(t, pre)
}

// SetIdentity resets the transform to identity, keeping bounds.
func (g *Geometry) SetIdentity() {
	g.setTransform(IdentityTransform())
}

// ExtentInMM returns the physical length of the bounding box along axis.
func (g *Geometry) ExtentInMM(axis int) float64 {
	checkAxis(axis)
	return r3.Norm(g.transform.Column(axis)) * g.bounds.Extent(axis)
}

// SetExtentInMM rescales column axis so that the physical extent along it
// becomes mm.
func (g *Geometry) SetExtentInMM(axis int, mm float64) {
	checkAxis(axis)
	if !(mm > 0) {
		fault(ErrInvalidExtent, "requested %g along axis %d", mm, axis)
	}
	current := g.ExtentInMM(axis)
	if math.Abs(current-mm) < Eps {
		return
	}
	if current == 0 {
		fault(ErrInvalidExtent, "bounding box is flat along axis %d", axis)
	}
	linear := g.transform.Linear()
	col := mat.Col(nil, axis, linear)
	floats.Scale(mm/current, col)
	linear.SetCol(axis, col)
	g.setTransform(&AffineTransform{linear: linear, offset: g.transform.offset})
}

// TimeBounds returns the temporal validity interval.
func (g *Geometry) TimeBounds() TimeBounds {
	return g.timeBounds
}

// SetTimeBounds sets the temporal validity interval.
func (g *Geometry) SetTimeBounds(tb TimeBounds) {
	if tb == g.timeBounds {
		return
	}
	g.timeBounds = tb
	g.modified()
}

// FrameOfReferenceID returns the coordinate frame tag.
func (g *Geometry) FrameOfReferenceID() uint {
	return g.frameOfReferenceID
}

// SetFrameOfReferenceID tags g with a coordinate frame.
func (g *Geometry) SetFrameOfReferenceID(id uint) {
	if id == g.frameOfReferenceID {
		return
	}
	g.frameOfReferenceID = id
	g.modified()
}

// IsValid reports whether the owner still considers g usable.
func (g *Geometry) IsValid() bool {
	return g.valid
}

// SetValid marks g usable or unusable.
func (g *Geometry) SetValid(valid bool) {
	if valid == g.valid {
		return
	}
	g.valid = valid
	g.modified()
}

func withinAbs(a, b []float64, eps float64) bool {
	for i := range a {
		if !scalar.EqualWithinAbs(a[i], b[i], eps) {
			return false
		}
	}
	return true
}
