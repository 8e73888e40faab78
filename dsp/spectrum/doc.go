// Package spectrum holds the frequency-axis conventions shared by every
// spectral estimate in this module.
//
// Discrete transforms produce bins in native order (0, 1, ..., n-1, where the
// upper half are negative frequencies). Everything exported by this module
// uses the zero-centred order instead: bin i carries frequency
//
//	f[i] = (i - n/2) * rate / n      (integer division n/2)
//
// [Frequencies] generates that axis and [Shift] reorders transform output
// into it, so estimates and frequency vectors are always index-aligned.
package spectrum
