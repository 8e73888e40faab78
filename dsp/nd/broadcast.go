package nd

// MulBroadcast multiplies a in place by b, where b has the same rank as a and
// each of its dimensions is either 1 or equal to the matching dimension of a.
//
// Combined with [Expand] this applies a window along any axis:
//
//	w, _ := nd.Expand(taper, a.NDim(), axis)
//	_ = a.MulBroadcast(w)
func (a *Array) MulBroadcast(b *Array) error {
	bStrides, err := broadcastStrides(a, b)
	if err != nil {
		return err
	}

	idx := make([]int, len(a.shape))
	bOff := 0

	for i := range a.data {
		a.data[i] *= b.data[bOff]

		// Advance the row-major counter and keep b's offset in step.
		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			bOff += bStrides[d]
			if idx[d] < a.shape[d] {
				break
			}
			bOff -= bStrides[d] * idx[d]
			idx[d] = 0
		}
	}

	return nil
}

func broadcastStrides(a, b *Array) ([]int, error) {
	if len(a.shape) != len(b.shape) {
		return nil, shapeErrorf("cannot broadcast rank %d onto rank %d", len(b.shape), len(a.shape))
	}

	strides := make([]int, len(a.shape))
	for d := range a.shape {
		switch b.shape[d] {
		case a.shape[d]:
			strides[d] = b.strides[d]
		case 1:
			strides[d] = 0
		default:
			return nil, shapeErrorf("cannot broadcast %v onto %v", b.shape, a.shape)
		}
	}

	return strides, nil
}
