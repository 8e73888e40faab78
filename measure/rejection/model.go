package rejection

import (
	"math"
	"math/cmplx"
)

// hold returns the zero-order-hold factor (1 - exp(-x)) / x for x = T*s.
// At x = 0 the removable singularity takes its limit, 1.
func hold(x complex128) complex128 {
	if x == 0 {
		return 1
	}

	// Below this the direct form loses digits to cancellation.
	if cmplx.Abs(x) < 1e-4 {
		return 1 - x/2 + x*x/6
	}

	return (1 - cmplx.Exp(-x)) / x
}

// loopTerms splits the loop at frequency f into the controller denominator
// 1 - leak*exp(-T*s) and the forward path g*D*H^2, so that the open loop is
// fwd/integ.
func loopTerms(f float64, p Params) (integ, fwd complex128) {
	theta := 2 * math.Pi * f / p.Rate
	s := complex(0, 2*math.Pi*f)

	// 1 - leak*e^{-i theta} = (1 - e^{-i theta}) + exp(ln_c)*e^{-i theta},
	// written without subtracting nearly equal numbers when the leak is
	// close to 1 or theta is small.
	sin, cos := math.Sincos(theta)
	half := math.Sin(theta / 2)
	integ = complex(2*half*half, sin) + complex(math.Exp(p.LnC), 0)*complex(cos, -sin)

	h := hold(complex(1/p.Rate, 0) * s)
	d := cmplx.Exp(-complex(p.Delay, 0) * s)
	fwd = complex(p.Gain, 0) * d * h * h

	return integ, fwd
}

// OpenLoop returns the loop transfer D(f)*H(f)^2*C(f) at frequency f in Hz.
func OpenLoop(f float64, p Params) complex128 {
	integ, fwd := loopTerms(f, p)
	return fwd / integ
}

// Response returns the complex closed-loop rejection 1/(1 + D*H^2*C) at f.
func Response(f float64, p Params) complex128 {
	integ, fwd := loopTerms(f, p)
	return integ / (integ + fwd)
}

// Evaluate returns the rejection power |1/(1 + D*H^2*C)|^2 at each frequency.
// Frequencies may be negative; the response is symmetric in magnitude.
// p must pass [Params.Validate]; in particular ln_c may not be below [MinLnC].
func Evaluate(freqs []float64, p Params) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	out := make([]float64, len(freqs))
	evaluateInto(out, freqs, p)

	return out, nil
}

func evaluateInto(dst, freqs []float64, p Params) {
	for i, f := range freqs {
		r := Response(f, p)
		dst[i] = real(r)*real(r) + imag(r)*imag(r)
	}
}
