package nd

// ResolveAxis maps a possibly negative axis onto [0, ndim-1].
func ResolveAxis(axis, ndim int) (int, error) {
	if ndim < 1 {
		return 0, shapeErrorf("dimensionality must be >= 1: %d", ndim)
	}

	resolved := axis
	if resolved < 0 {
		resolved += ndim
	}

	if resolved < 0 || resolved >= ndim {
		return 0, &ShapeError{Axis: axis, NDim: ndim}
	}

	return resolved, nil
}

// ExpandShape returns an ndim-long shape holding length at axis and 1
// everywhere else. A negative axis counts from the end of the resulting shape.
func ExpandShape(length, ndim, axis int) ([]int, error) {
	if length < 0 {
		return nil, shapeErrorf("length must be >= 0: %d", length)
	}

	ax, err := ResolveAxis(axis, ndim)
	if err != nil {
		return nil, err
	}

	shape := make([]int, ndim)
	for i := range shape {
		shape[i] = 1
	}

	shape[ax] = length

	return shape, nil
}

// Expand lays vec out along axis of a new ndim-dimensional array whose other
// axes all have size 1. The values are copied.
func Expand(vec []float64, ndim, axis int) (*Array, error) {
	shape, err := ExpandShape(len(vec), ndim, axis)
	if err != nil {
		return nil, err
	}

	return FromSlice(append([]float64(nil), vec...), shape...)
}
