package rejection

import (
	"fmt"
	"math/cmplx"

	"github.com/cwbudde/algo-looptf/internal/fftplan"
)

// Filter returns signal as the loop with parameters p would leave it: each
// Fourier component of the whole record is scaled by |1/(1 + D*H^2*C)|.
// The filter is zero-phase and circular, so the output has the same length as
// the input and no transient. signal is not modified.
//
// Filter is a simulation aid: feeding an open-loop record and its filtered
// copy to a periodogram reproduces [Evaluate] up to leakage.
func Filter(signal []float64, p Params) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := len(signal)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty signal", ErrInvalidData)
	}

	plan, err := fftplan.New(n)
	if err != nil {
		return nil, err
	}

	buf := make([]complex128, n)
	for i, v := range signal {
		buf[i] = complex(v, 0)
	}

	bins := make([]complex128, n)
	if err := plan.Forward(bins, buf); err != nil {
		return nil, err
	}

	df := p.Rate / float64(n)
	for k := range bins {
		// Native bin order: bins above n/2 are negative frequencies.
		f := float64(k) * df
		if k > n/2 {
			f = float64(k-n) * df
		}
		bins[k] *= complex(cmplx.Abs(Response(f, p)), 0)
	}

	if err := plan.Inverse(buf, bins); err != nil {
		return nil, err
	}

	out := make([]float64, n)
	for i, v := range buf {
		out[i] = real(v)
	}

	return out, nil
}
