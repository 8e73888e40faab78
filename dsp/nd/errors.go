package nd

import (
	"errors"
	"fmt"
)

// ErrShape is matched by every shape or axis error returned from this package.
var ErrShape = errors.New("nd: invalid shape")

// ShapeError reports an axis index that does not resolve inside [0, NDim-1].
type ShapeError struct {
	Axis int
	NDim int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("nd: axis %d out of range for %d dimensions", e.Axis, e.NDim)
}

// Is lets errors.Is(err, ErrShape) match a *ShapeError.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShape
}

func shapeErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrShape}, args...)...)
}
