// Package frequency computes summary statistics of power spectra sampled on
// an arbitrary ascending frequency axis, and level crossings of transfer
// curves such as a rejection function.
package frequency

import (
	"errors"
	"fmt"
	"math"
)

var errEmpty = errors.New("frequency: empty spectrum")

// Stats holds statistics of a power spectrum.
type Stats struct {
	BinCount int
	Total    float64 // sum of power
	Mean     float64
	Max      float64
	MaxFreq  float64
	Min      float64
	MinFreq  float64
	// Spectral shape descriptors
	Centroid float64 // power-weighted mean frequency (Hz)
	Spread   float64 // power-weighted standard deviation around the centroid (Hz)
	Flatness float64 // geometric over arithmetic mean, 0..1
	Rolloff  float64 // frequency below which 85% of the power lies (Hz)
}

// ToDB converts a power ratio to decibels. Returns -Inf for zero.
func ToDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 10 * math.Log10(v)
}

// Calculate computes all statistics of power sampled at freqs.
func Calculate(freqs, power []float64) (Stats, error) {
	if err := check(freqs, power); err != nil {
		return Stats{}, err
	}

	s := Stats{
		BinCount: len(power),
		Max:      power[0],
		MaxFreq:  freqs[0],
		Min:      power[0],
		MinFreq:  freqs[0],
	}

	for i, v := range power {
		s.Total += v
		if v > s.Max {
			s.Max, s.MaxFreq = v, freqs[i]
		}
		if v < s.Min {
			s.Min, s.MinFreq = v, freqs[i]
		}
	}
	s.Mean = s.Total / float64(len(power))

	s.Centroid = centroid(freqs, power, s.Total)
	s.Spread = spread(freqs, power, s.Centroid, s.Total)
	s.Flatness = Flatness(power)
	s.Rolloff = rolloff(freqs, power, 0.85, s.Total)

	return s, nil
}

// Centroid returns the power-weighted mean frequency.
//
//	centroid = sum(f_i * P_i) / sum(P_i)
func Centroid(freqs, power []float64) float64 {
	if check(freqs, power) != nil {
		return 0
	}
	total := 0.0
	for _, v := range power {
		total += v
	}
	return centroid(freqs, power, total)
}

func centroid(freqs, power []float64, total float64) float64 {
	if total == 0 {
		return 0
	}
	weighted := 0.0
	for i, v := range power {
		weighted += freqs[i] * v
	}
	return weighted / total
}

func spread(freqs, power []float64, cent, total float64) float64 {
	if total == 0 {
		return 0
	}
	weighted := 0.0
	for i, v := range power {
		d := freqs[i] - cent
		weighted += d * d * v
	}
	return math.Sqrt(weighted / total)
}

// Flatness returns the spectral flatness (Wiener entropy) in the range 0..1.
// Any zero bin makes the geometric mean, and so the flatness, zero.
func Flatness(power []float64) float64 {
	if len(power) == 0 {
		return 0
	}

	sumLin, sumLog := 0.0, 0.0
	for _, v := range power {
		if v <= 0 {
			return 0
		}
		sumLin += v
		sumLog += math.Log(v)
	}

	n := float64(len(power))
	return math.Exp(sumLog/n) / (sumLin / n)
}

// Rolloff returns the frequency below which fraction (0..1) of the power lies.
func Rolloff(freqs, power []float64, fraction float64) float64 {
	if check(freqs, power) != nil {
		return 0
	}
	total := 0.0
	for _, v := range power {
		total += v
	}
	return rolloff(freqs, power, fraction, total)
}

func rolloff(freqs, power []float64, fraction, total float64) float64 {
	if total == 0 {
		return 0
	}
	threshold := fraction * total
	cum := 0.0
	for i, v := range power {
		cum += v
		if cum >= threshold {
			return freqs[i]
		}
	}
	return freqs[len(freqs)-1]
}

// Crossing returns the first frequency at which values rises through level,
// interpolated linearly between bins. ok is false when values starts at or
// above level or never reaches it.
//
// For a rejection curve and level 1 this is the rejection bandwidth: the
// frequency up to which the loop attenuates disturbances.
func Crossing(freqs, values []float64, level float64) (f float64, ok bool) {
	if check(freqs, values) != nil || values[0] >= level {
		return 0, false
	}

	for i := 1; i < len(values); i++ {
		if values[i-1] < level && values[i] >= level {
			return interpFreq(freqs[i-1], freqs[i], values[i-1], values[i], level), true
		}
	}

	return 0, false
}

// PowerRatio returns sum(num)/sum(den): the variance reduction when num and
// den are closed- and open-loop spectra on the same bins.
func PowerRatio(num, den []float64) (float64, error) {
	if len(num) != len(den) {
		return 0, fmt.Errorf("frequency: length mismatch: %d != %d", len(num), len(den))
	}
	sn, sd := 0.0, 0.0
	for i := range num {
		sn += num[i]
		sd += den[i]
	}
	if sd == 0 {
		return 0, errors.New("frequency: zero denominator power")
	}
	return sn / sd, nil
}

// interpFreq linearly interpolates between two bins to find the frequency
// where the value crosses the given threshold.
func interpFreq(fLow, fHigh, vLow, vHigh, threshold float64) float64 {
	denom := vHigh - vLow
	if denom == 0 {
		return (fLow + fHigh) / 2
	}
	t := (threshold - vLow) / denom
	return fLow + t*(fHigh-fLow)
}

func check(freqs, values []float64) error {
	if len(values) == 0 {
		return errEmpty
	}
	if len(freqs) != len(values) {
		return fmt.Errorf("frequency: %d frequencies for %d values", len(freqs), len(values))
	}
	return nil
}
