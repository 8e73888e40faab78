// Package periodogram estimates power spectra by averaging tapered,
// non-overlapping segments (Welch's method without overlap).
//
// For a series of N samples and a segment length L, the first k = N/L whole
// segments are used and any shorter tail is dropped. Each segment is
// multiplied by the raised-cosine taper w (flat for L < 3, where the raised
// cosine has no non-zero samples), transformed, and scaled as
//
//	P[f] = |sum_n w[n] x[n] exp(-2*pi*i*f*n/L)|^2 / sum_n w[n]^2
//
// This is the squared magnitude of the unitary transform divided by the mean
// taper power sum(w^2)/L, so by Parseval's theorem the mean of P over all bins
// equals the taper-weighted mean square of the segment: the power lost to
// tapering is restored. White noise of variance s^2 therefore has an expected
// spectrum of s^2 in every bin. [WithSampleRate] divides by the rate to give
// power per hertz instead.
//
// Output bins follow the zero-centred order of [spectrum.Frequencies].
//
// Data may have any number of dimensions; the time axis is chosen per call
// and all other axes are carried through unchanged.
package periodogram
