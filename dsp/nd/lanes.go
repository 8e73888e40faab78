package nd

// Lane is a strided 1-D view of the elements along one axis of an Array, with
// every other index held fixed.
type Lane struct {
	data   []float64
	off    int
	stride int
	n      int
}

// Len returns the number of elements in the lane.
func (l Lane) Len() int { return l.n }

// At returns element j of the lane.
func (l Lane) At(j int) float64 { return l.data[l.off+j*l.stride] }

// Set stores v at element j of the lane.
func (l Lane) Set(j int, v float64) { l.data[l.off+j*l.stride] = v }

// CopyTo copies the lane into dst, which must hold at least Len values.
func (l Lane) CopyTo(dst []float64) {
	for j := 0; j < l.n; j++ {
		dst[j] = l.data[l.off+j*l.stride]
	}
}

// CopyFrom overwrites the lane with src, which must hold at least Len values.
func (l Lane) CopyFrom(src []float64) {
	for j := 0; j < l.n; j++ {
		l.data[l.off+j*l.stride] = src[j]
	}
}

// Values returns a freshly allocated copy of the lane.
func (l Lane) Values() []float64 {
	out := make([]float64, l.n)
	l.CopyTo(out)
	return out
}

// LaneCount returns how many lanes run along axis.
func (a *Array) LaneCount(axis int) (int, error) {
	ax, err := ResolveAxis(axis, len(a.shape))
	if err != nil {
		return 0, err
	}

	if a.shape[ax] == 0 {
		return 0, nil
	}

	return len(a.data) / a.shape[ax], nil
}

// ForEachLane calls fn for every lane along axis, in row-major order of the
// remaining axes. Writes through the lane modify the array.
func (a *Array) ForEachLane(axis int, fn func(i int, l Lane)) error {
	ax, err := ResolveAxis(axis, len(a.shape))
	if err != nil {
		return err
	}

	n := a.shape[ax]
	inner := a.strides[ax]

	outer := 1
	for _, d := range a.shape[:ax] {
		outer *= d
	}

	i := 0
	for o := 0; o < outer; o++ {
		base := o * n * inner
		for in := 0; in < inner; in++ {
			fn(i, Lane{data: a.data, off: base + in, stride: inner, n: n})
			i++
		}
	}

	return nil
}

// Lanes returns every lane along axis.
func (a *Array) Lanes(axis int) ([]Lane, error) {
	var lanes []Lane

	err := a.ForEachLane(axis, func(_ int, l Lane) {
		lanes = append(lanes, l)
	})
	if err != nil {
		return nil, err
	}

	return lanes, nil
}
