package nd

// Slice copies indices [start, stop) along axis into a new array.
func (a *Array) Slice(axis, start, stop int) (*Array, error) {
	ax, err := ResolveAxis(axis, len(a.shape))
	if err != nil {
		return nil, err
	}

	if start < 0 || stop < start || stop > a.shape[ax] {
		return nil, shapeErrorf("slice [%d:%d] out of range for axis of size %d", start, stop, a.shape[ax])
	}

	keep := make([]int, 0, stop-start)
	for i := start; i < stop; i++ {
		keep = append(keep, i)
	}

	return a.take(ax, keep)
}

// Compress keeps the indices along axis whose mask entry is true, in order.
// This is how masked telemetry frames are dropped before analysis.
func (a *Array) Compress(mask []bool, axis int) (*Array, error) {
	ax, err := ResolveAxis(axis, len(a.shape))
	if err != nil {
		return nil, err
	}

	if len(mask) != a.shape[ax] {
		return nil, shapeErrorf("mask length %d does not match axis size %d", len(mask), a.shape[ax])
	}

	keep := make([]int, 0, len(mask))
	for i, ok := range mask {
		if ok {
			keep = append(keep, i)
		}
	}

	return a.take(ax, keep)
}

func (a *Array) take(ax int, keep []int) (*Array, error) {
	shape := a.Shape()
	shape[ax] = len(keep)

	out, err := New(shape...)
	if err != nil {
		return nil, err
	}

	src, err := a.Lanes(ax)
	if err != nil {
		return nil, err
	}

	err = out.ForEachLane(ax, func(i int, dst Lane) {
		for j, k := range keep {
			dst.Set(j, src[i].At(k))
		}
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Transpose returns a copy with axes permuted so that output axis i is input
// axis perm[i].
func (a *Array) Transpose(perm ...int) (*Array, error) {
	if len(perm) != len(a.shape) {
		return nil, shapeErrorf("permutation %v does not match rank %d", perm, len(a.shape))
	}

	seen := make([]bool, len(perm))
	shape := make([]int, len(perm))
	srcStrides := make([]int, len(perm))

	for i, p := range perm {
		if p < 0 || p >= len(perm) || seen[p] {
			return nil, shapeErrorf("invalid permutation %v", perm)
		}
		seen[p] = true
		shape[i] = a.shape[p]
		srcStrides[i] = a.strides[p]
	}

	out, err := New(shape...)
	if err != nil {
		return nil, err
	}

	idx := make([]int, len(shape))
	srcOff := 0

	for i := range out.data {
		out.data[i] = a.data[srcOff]

		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			srcOff += srcStrides[d]
			if idx[d] < shape[d] {
				break
			}
			srcOff -= srcStrides[d] * idx[d]
			idx[d] = 0
		}
	}

	return out, nil
}

// MoveAxis returns a copy with axis src moved to position dst, keeping the
// relative order of the other axes.
func (a *Array) MoveAxis(src, dst int) (*Array, error) {
	s, err := ResolveAxis(src, len(a.shape))
	if err != nil {
		return nil, err
	}

	d, err := ResolveAxis(dst, len(a.shape))
	if err != nil {
		return nil, err
	}

	perm := make([]int, 0, len(a.shape))
	for i := range a.shape {
		if i != s {
			perm = append(perm, i)
		}
	}

	perm = append(perm[:d], append([]int{s}, perm[d:]...)...)

	return a.Transpose(perm...)
}
