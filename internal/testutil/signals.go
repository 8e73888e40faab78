package testutil

import (
	"math"
	"math/rand"
)

// Sine generates a sine wave at freqHz sampled at sampleRate.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// WhiteNoise generates zero-mean Gaussian noise with standard deviation sigma
// from a fixed seed.
func WhiteNoise(seed int64, sigma float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = rng.NormFloat64() * sigma
	}
	return out
}

// Channels stacks nch independent noise channels into a row-major
// [nch][length] block.
func Channels(seed int64, sigma float64, nch, length int) []float64 {
	out := make([]float64, 0, nch*length)
	for c := 0; c < nch; c++ {
		out = append(out, WhiteNoise(seed+int64(c), sigma, length)...)
	}
	return out
}

// Variance returns the population variance of x.
func Variance(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))

	sum := 0.0
	for _, v := range x {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(x))
}
