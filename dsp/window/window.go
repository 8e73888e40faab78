package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

var cosineCoeffs = []float64{0.5, -0.5}

// Cosine returns the symmetric raised-cosine taper of length n.
//
// For n < 2 there is nothing to taper: the result is n ones (nil for n <= 0)
// together with [ErrDegenerate], which callers may treat as a warning.
func Cosine(n int) ([]float64, error) {
	if n < 2 {
		if n <= 0 {
			return nil, ErrDegenerate
		}
		return []float64{1}, ErrDegenerate
	}

	out := make([]float64, n)
	den := float64(n - 1)
	for i := range out {
		out[i] = cosineFromCoeffs(float64(i)/den, cosineCoeffs)
	}

	// Pin the endpoints; cos(2*pi) is not exactly 1 in floating point.
	out[0] = 0
	out[n-1] = 0

	return out, nil
}

// Energy returns sum(w[i]^2).
func Energy(coeffs []float64) float64 {
	sum := 0.0
	for _, c := range coeffs {
		sum += c * c
	}
	return sum
}

// ApplyCoefficients multiplies samples with coefficients and returns a new slice.
func ApplyCoefficients(samples, coeffs []float64) ([]float64, error) {
	if len(samples) != len(coeffs) {
		return nil, errMismatchedLength
	}

	out := make([]float64, len(samples))
	vecmath.MulBlock(out, samples, coeffs)

	return out, nil
}

// ApplyCoefficientsInPlace multiplies samples with coefficients in place.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}
