package spectrum

import (
	"errors"
	"fmt"
)

var errShiftLength = errors.New("spectrum: shift buffers must have equal length")

// Frequencies returns the zero-centred frequency axis for an n-point transform
// sampled at rate. Values ascend in steps of rate/n and include 0.
func Frequencies(n int, rate float64) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("spectrum: length must be >= 1: %d", n)
	}

	if !(rate > 0) {
		return nil, fmt.Errorf("spectrum: rate must be > 0: %f", rate)
	}

	out := make([]float64, n)
	half := n / 2
	df := rate / float64(n)
	for i := range out {
		out[i] = float64(i-half) * df
	}

	return out, nil
}

// ShiftIndex returns the native transform bin that lands at zero-centred
// position i of an n-point spectrum.
func ShiftIndex(i, n int) int {
	k := (i - n/2) % n
	if k < 0 {
		k += n
	}
	return k
}

// Shift reorders native transform bins in src into zero-centred order in dst.
// dst and src must not overlap.
func Shift[T any](dst, src []T) error {
	if len(dst) != len(src) {
		return errShiftLength
	}

	n := len(src)
	for i := range dst {
		dst[i] = src[ShiftIndex(i, n)]
	}

	return nil
}

// Unshift undoes [Shift]. dst and src must not overlap.
func Unshift[T any](dst, src []T) error {
	if len(dst) != len(src) {
		return errShiftLength
	}

	n := len(src)
	for i := range src {
		dst[ShiftIndex(i, n)] = src[i]
	}

	return nil
}

// Positive returns the bins with strictly positive frequency, preserving
// order. freqs and values must have the same length.
func Positive(freqs, values []float64) ([]float64, []float64, error) {
	if len(freqs) != len(values) {
		return nil, nil, fmt.Errorf("spectrum: length mismatch: %d != %d", len(freqs), len(values))
	}

	var f, v []float64
	for i, x := range freqs {
		if x > 0 {
			f = append(f, x)
			v = append(v, values[i])
		}
	}

	return f, v, nil
}
