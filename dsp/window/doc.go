// Package window provides the raised-cosine taper applied to periodogram
// segments, plus helpers describing how much power the taper removes.
//
// The taper is symmetric and reaches zero at both ends:
//
//	w[i] = 0.5 - 0.5*cos(2*pi*i/(n-1))
//
// Tapering lowers the average power of a segment by the factor
// sum(w^2)/n; estimators divide by [Energy] to undo that loss.
package window
