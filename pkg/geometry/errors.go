package geometry

import (
	"errors"
	"fmt"
)

// Faults raised by Geometry. They indicate a caller error or a degenerate
// transform and are delivered by panic with an error wrapping one of these
// values, so callers that recover can still test them with errors.Is.
var (
	ErrNonPositiveSpacing = errors.New("geometry: spacing must be strictly positive")
	ErrAxisOutOfRange     = errors.New("geometry: axis out of range, this geometry is for 3D data")
	ErrCornerOutOfRange   = errors.New("geometry: a cube only has 8 corners, labeled 0-7")
	ErrSingularTransform  = errors.New("geometry: index-to-world transform cannot be inverted")
	ErrInvalidExtent      = errors.New("geometry: extent must be strictly positive")
	ErrMatrixShape        = errors.New("geometry: unexpected matrix shape")
	ErrNilTransform       = errors.New("geometry: nil transform")
)

// fault panics with err annotated by the formatted detail.
func fault(err error, format string, args ...any) {
	panic(fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...)))
}

func checkAxis(axis int) {
	if axis < 0 || axis > 2 {
		fault(ErrAxisOutOfRange, "axis %d", axis)
	}
}
