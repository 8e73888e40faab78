package window

import "errors"

var (
	// ErrDegenerate is returned alongside an all-ones taper when the requested
	// length is too short to taper. It is a warning: the coefficients are usable.
	ErrDegenerate = errors.New("window: length < 2, taper degrades to ones")

	errEmptyCoeffs      = errors.New("window: coefficients must not be empty")
	errZeroCoherentGain = errors.New("window: coherent gain is zero")
	errMismatchedLength = errors.New("window: samples and coefficients must have same length")
)
