package window

import "math"

// Analysis summarises how a taper scales signal and noise power.
type Analysis struct {
	// Length is the number of coefficients.
	Length int
	// CoherentGain is sum(w)/N, the amplitude response to a bin-centred tone.
	CoherentGain float64
	// Energy is sum(w^2).
	Energy float64
	// ENBW is the equivalent noise bandwidth in bins.
	ENBW float64
	// PowerLossdB is 10*log10(sum(w^2)/N), the average power removed by tapering.
	PowerLossdB float64
	// ScallopLossdB is the amplitude error for a tone half a bin off-centre.
	ScallopLossdB float64
}

// Analyze computes the taper figures used to compensate periodogram power.
func Analyze(coeffs []float64) (Analysis, error) {
	n := len(coeffs)
	if n == 0 {
		return Analysis{}, errEmptyCoeffs
	}

	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}
	if sum == 0 {
		return Analysis{}, errZeroCoherentGain
	}

	energy := Energy(coeffs)
	nf := float64(n)

	dc := dftMagSq(coeffs, 0)
	half := dftMagSq(coeffs, 0.5/nf)

	return Analysis{
		Length:        n,
		CoherentGain:  sum / nf,
		Energy:        energy,
		ENBW:          nf * energy / (sum * sum),
		PowerLossdB:   10 * math.Log10(energy/nf),
		ScallopLossdB: 10 * math.Log10(half/dc),
	}, nil
}

// dftMagSq evaluates |DFT(freq)|^2 at a normalised frequency in [0,1).
func dftMagSq(coeffs []float64, freq float64) float64 {
	re, im := 0.0, 0.0
	w := 2 * math.Pi * freq
	for k, c := range coeffs {
		phase := w * float64(k)
		re += c * math.Cos(phase)
		im -= c * math.Sin(phase)
	}
	return re*re + im*im
}
