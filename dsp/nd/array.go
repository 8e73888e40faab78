package nd

// Array is a dense row-major N-dimensional array of float64 values.
//
// The zero value is not usable; construct arrays with [New] or [FromSlice].
type Array struct {
	shape   []int
	strides []int
	data    []float64
}

// New allocates a zero-filled array with the given shape.
func New(shape ...int) (*Array, error) {
	size, err := shapeSize(shape)
	if err != nil {
		return nil, err
	}

	return newArray(make([]float64, size), shape), nil
}

// FromSlice wraps data in an array of the given shape without copying.
// len(data) must equal the product of the shape.
func FromSlice(data []float64, shape ...int) (*Array, error) {
	size, err := shapeSize(shape)
	if err != nil {
		return nil, err
	}

	if len(data) != size {
		return nil, shapeErrorf("data length %d does not match shape %v", len(data), shape)
	}

	return newArray(data, shape), nil
}

func newArray(data []float64, shape []int) *Array {
	s := append([]int(nil), shape...)

	return &Array{
		shape:   s,
		strides: rowMajorStrides(s),
		data:    data,
	}
}

func shapeSize(shape []int) (int, error) {
	if len(shape) == 0 {
		return 0, shapeErrorf("shape must have at least one dimension")
	}

	size := 1
	for _, d := range shape {
		if d < 0 {
			return 0, shapeErrorf("negative dimension in shape %v", shape)
		}
		size *= d
	}

	return size, nil
}

func rowMajorStrides(shape []int) []int {
	strides := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= shape[i]
	}
	return strides
}

// Shape returns a copy of the array shape.
func (a *Array) Shape() []int { return append([]int(nil), a.shape...) }

// Strides returns a copy of the row-major element strides.
func (a *Array) Strides() []int { return append([]int(nil), a.strides...) }

// NDim returns the number of dimensions.
func (a *Array) NDim() int { return len(a.shape) }

// Size returns the total element count.
func (a *Array) Size() int { return len(a.data) }

// Data returns the backing slice in row-major order. It is not a copy.
func (a *Array) Data() []float64 { return a.data }

// Dim returns the size of a (possibly negative) axis.
func (a *Array) Dim(axis int) (int, error) {
	ax, err := ResolveAxis(axis, len(a.shape))
	if err != nil {
		return 0, err
	}
	return a.shape[ax], nil
}

// At returns the element at the given index. It panics on a malformed index,
// like a slice access would.
func (a *Array) At(idx ...int) float64 {
	return a.data[a.offset(idx)]
}

// Set stores v at the given index.
func (a *Array) Set(v float64, idx ...int) {
	a.data[a.offset(idx)] = v
}

func (a *Array) offset(idx []int) int {
	if len(idx) != len(a.shape) {
		panic("nd: index rank does not match array rank")
	}

	off := 0
	for i, v := range idx {
		if v < 0 || v >= a.shape[i] {
			panic("nd: index out of range")
		}
		off += v * a.strides[i]
	}
	return off
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	return newArray(append([]float64(nil), a.data...), a.shape)
}

// Reshape returns a view with a new shape over the same data.
func (a *Array) Reshape(shape ...int) (*Array, error) {
	return FromSlice(a.data, shape...)
}

// SameShape reports whether a and b have identical shapes.
func (a *Array) SameShape(b *Array) bool {
	if len(a.shape) != len(b.shape) {
		return false
	}
	for i := range a.shape {
		if a.shape[i] != b.shape[i] {
			return false
		}
	}
	return true
}
