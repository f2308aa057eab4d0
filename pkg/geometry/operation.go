package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// OperationKind tags an operation on the interaction bus.
type OperationKind int

const (
	OpNothing OperationKind = iota
	OpMove
	OpScale
	OpRotate
	OpRestorePose
	OpApplyMatrix
)

func (k OperationKind) String() string {
	switch k {
	case OpNothing:
		return "nothing"
	case OpMove:
		return "move"
	case OpScale:
		return "scale"
	case OpRotate:
		return "rotate"
	case OpRestorePose:
		return "restore-pose"
	case OpApplyMatrix:
		return "apply-matrix"
	default:
		return fmt.Sprintf("OperationKind(%d)", int(k))
	}
}

// Operation is a typed geometry mutation. The set of operations is closed;
// see NoOp, MoveOp, ScaleOp, RotateOp, RestorePoseOp and ApplyMatrixOp.
type Operation interface {
	Kind() OperationKind
	isOperation()
}

// NoOp leaves the transform as it is.
type NoOp struct{}

// MoveOp places the index origin at Target in world space, keeping rotation
// and scale.
type MoveOp struct {
	Target r3.Vec
}

// ScaleOp grows each axis by Delta in world units.
type ScaleOp struct {
	Delta r3.Vec
}

// RotateOp rotates the geometry by AngleDegrees around Axis through Center.
type RotateOp struct {
	Axis         r3.Vec
	Center       r3.Vec
	AngleDegrees float64
}

// RestorePoseOp reinstalls a previously saved transform.
type RestorePoseOp struct {
	Pose *AffineTransform
}

// ApplyMatrixOp installs a 4x4 homogeneous matrix.
type ApplyMatrixOp struct {
	Matrix mat.Matrix
}

func (NoOp) Kind() OperationKind          { return OpNothing }
func (MoveOp) Kind() OperationKind        { return OpMove }
func (ScaleOp) Kind() OperationKind       { return OpScale }
func (RotateOp) Kind() OperationKind      { return OpRotate }
func (RestorePoseOp) Kind() OperationKind { return OpRestorePose }
func (ApplyMatrixOp) Kind() OperationKind { return OpApplyMatrix }

func (NoOp) isOperation()          {}
func (MoveOp) isOperation()        {}
func (ScaleOp) isOperation()       {}
func (RotateOp) isOperation()      {}
func (RestorePoseOp) isOperation() {}
func (ApplyMatrixOp) isOperation() {}

// OperationEvent is the loosely typed envelope used on a shared command
// bus: a tag plus a payload whose type depends on the tag.
//
//	OpNothing      any payload
//	OpMove         r3.Vec target
//	OpScale        r3.Vec delta
//	OpRotate       RotateOp
//	OpRestorePose  *AffineTransform
//	OpApplyMatrix  mat.Matrix
type OperationEvent struct {
	Kind    OperationKind
	Payload any
}

// Decode converts e into a typed Operation. It reports false when the
// payload does not match the tag.
func (e OperationEvent) Decode() (Operation, bool) {
	switch e.Kind {
	case OpNothing:
		return NoOp{}, true
	case OpMove:
		if p, ok := e.Payload.(r3.Vec); ok {
			return MoveOp{Target: p}, true
		}
	case OpScale:
		if d, ok := e.Payload.(r3.Vec); ok {
			return ScaleOp{Delta: d}, true
		}
	case OpRotate:
		if r, ok := e.Payload.(RotateOp); ok {
			return r, true
		}
	case OpRestorePose:
		if t, ok := e.Payload.(*AffineTransform); ok && t != nil {
			return RestorePoseOp{Pose: t}, true
		}
	case OpApplyMatrix:
		if m, ok := e.Payload.(mat.Matrix); ok && !isNilMatrix(m) {
			return ApplyMatrixOp{Matrix: m}, true
		}
	}
	return nil, false
}

// HandleEvent decodes e and executes it. Events whose payload does not
// match their tag are ignored without touching g.
func (g *Geometry) HandleEvent(e OperationEvent) bool {
	op, ok := e.Decode()
	if !ok {
		Logger().Debug("geometry: ignoring mismatched operation",
			"kind", e.Kind.String(), "payload", fmt.Sprintf("%T", e.Payload))
		return false
	}
	return g.ExecuteOperation(op)
}

// ExecuteOperation applies op to the homogeneous form of the transform and
// re-derives the affine transform, spacing and origin from the result,
// bumping the version once. It reports false, leaving g untouched, when op
// is nil, incomplete, or would produce a degenerate transform.
func (g *Geometry) ExecuteOperation(op Operation) bool {
	h := g.transform.Homogeneous()

	var next *mat.Dense
	switch op := op.(type) {
	case NoOp:
		next = h
	case MoveOp:
		next = product(translation4(r3.Sub(op.Target, g.transform.offset)), h)
	case ScaleOp:
		next = g.scaled(h, op.Delta)
	case RotateOp:
		next = rotated(h, op)
	case RestorePoseOp:
		if op.Pose != nil {
			next = op.Pose.Homogeneous()
		}
	case ApplyMatrixOp:
		if !isNilMatrix(op.Matrix) {
			if r, c := op.Matrix.Dims(); r == 4 && c == 4 {
				next = mat.DenseCopyOf(op.Matrix)
			}
		}
	}
	if next == nil {
		Logger().Debug("geometry: operation aborted", "operation", fmt.Sprintf("%T", op))
		return false
	}

	t, err := AffineFromHomogeneous(next)
	if err != nil || !validColumns(t) {
		Logger().Debug("geometry: operation would leave a degenerate transform",
			"operation", fmt.Sprintf("%T", op))
		return false
	}
	g.transform = t
	g.transformChanged()
	return true
}

// scaled grows every column of h by delta world units. The scale is
// applied about the index-space bounding box center after moving the
// current position to the origin, then both translations are undone.
func (g *Geometry) scaled(h *mat.Dense, delta r3.Vec) *mat.Dense {
	factors := vecSlice(delta)
	for j := range factors {
		factors[j] = 1 + factors[j]/r3.Norm(g.transform.Column(j))
		if !(factors[j] > 0) || math.IsInf(factors[j], 0) {
			return nil
		}
	}
	scale := mat.NewDiagDense(4, []float64{factors[0], factors[1], factors[2], 1})

	pos := g.transform.offset
	center := g.bounds.Center()
	return product(
		translation4(pos),
		translation4(center),
		translation4(r3.Scale(-1, center)),
		translation4(r3.Scale(-1, pos)),
		h,
		scale,
	)
}

// rotated returns T(center) * R * T(-center) * h.
func rotated(h *mat.Dense, op RotateOp) *mat.Dense {
	if r3.Norm(op.Axis) == 0 {
		return nil
	}
	rot := r3.NewRotation(op.AngleDegrees*math.Pi/180, op.Axis)
	r := mat.NewDense(4, 4, nil)
	for j, e := range []r3.Vec{{X: 1}, {Y: 1}, {Z: 1}} {
		col := rot.Rotate(e)
		r.Set(0, j, col.X)
		r.Set(1, j, col.Y)
		r.Set(2, j, col.Z)
	}
	r.Set(3, 3, 1)
	return product(
		translation4(op.Center),
		r,
		translation4(r3.Scale(-1, op.Center)),
		h,
	)
}

// isNilMatrix reports whether m is nil or wraps a nil pointer of one of
// the gonum dense types.
func isNilMatrix(m mat.Matrix) bool {
	switch m := m.(type) {
	case nil:
		return true
	case *mat.Dense:
		return m == nil
	case *mat.DiagDense:
		return m == nil
	case *mat.SymDense:
		return m == nil
	case *mat.TriDense:
		return m == nil
	case *mat.VecDense:
		return m == nil
	}
	return false
}
