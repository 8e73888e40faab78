// Package nd provides a small row-major N-dimensional float64 array and the
// axis utilities needed to run 1-D signal processing along an arbitrary axis.
//
// Telemetry arrays carry one time axis and any number of channel or trial
// axes. The helpers here let a vector of length L (a window, a frequency grid)
// be laid out along any axis of a D-dimensional array, so callers never write
// axis-specific reshaping code:
//
//	shape, _ := nd.ExpandShape(5, 3, 1)  // [1 5 1]
//	shape, _ = nd.ExpandShape(5, 4, -2)  // [1 1 5 1]
//
// Negative axes count from the end of the shape, as in most array libraries.
package nd
