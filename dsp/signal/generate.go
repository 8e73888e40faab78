// Package signal generates deterministic synthetic telemetry.
package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-looptf/dsp/nd"
)

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	sampleRate float64
	seed       int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSampleRate sets the sample rate in Hz (default 1000).
func WithSampleRate(rate float64) Option {
	return func(g *Generator) {
		g.sampleRate = rate
	}
}

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{sampleRate: 1000, seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// SampleRate returns the configured sample rate.
func (g *Generator) SampleRate() float64 { return g.sampleRate }

// Seed returns the seed of the first noise channel.
func (g *Generator) Seed() int64 { return g.seed }

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if g.sampleRate <= 0 {
		return nil, fmt.Errorf("sine sample rate must be > 0: %f", g.sampleRate)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// Gaussian generates zero-mean white Gaussian noise with standard deviation
// sigma from the generator seed.
func (g *Generator) Gaussian(sigma float64, samples int) ([]float64, error) {
	return gaussian(g.seed, sigma, samples)
}

// Channels generates nch independent Gaussian channels as a [nch, samples]
// array. Channel c is seeded with Seed()+c, so any single channel can be
// regenerated on its own.
func (g *Generator) Channels(sigma float64, nch, samples int) (*nd.Array, error) {
	if nch <= 0 {
		return nil, fmt.Errorf("channel count must be > 0: %d", nch)
	}

	out, err := nd.New(nch, samples)
	if err != nil {
		return nil, err
	}

	rows, err := out.Lanes(1)
	if err != nil {
		return nil, err
	}

	for c, row := range rows {
		x, err := gaussian(g.seed+int64(c), sigma, samples)
		if err != nil {
			return nil, err
		}
		row.CopyFrom(x)
	}

	return out, nil
}

func gaussian(seed int64, sigma float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if !(sigma >= 0) {
		return nil, fmt.Errorf("noise sigma must be >= 0: %f", sigma)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = rng.NormFloat64() * sigma
	}
	return out, nil
}
