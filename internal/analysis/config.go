package analysis

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-looptf/measure/rejection"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("analysis: invalid config")

// Config describes one measurement.
type Config struct {
	// Rate is the loop (sample) rate in Hz.
	Rate float64 `yaml:"rate"`
	// SegmentLength is the periodogram segment length.
	SegmentLength int `yaml:"segment_length"`
	// Axis is the time axis of the input arrays; negative counts from the end.
	Axis int `yaml:"axis"`
	// Density scales spectra to power per Hz.
	Density bool `yaml:"density"`

	// MinFrequency excludes bins with |f| below it from the fit.
	MinFrequency float64 `yaml:"min_frequency"`
	// PositiveOnly fits only f > 0; the ratio is symmetric so this halves
	// the work without losing information.
	PositiveOnly bool `yaml:"positive_only"`
	// ZeroPolicy is "drop" or "error"; see [ZeroPolicy].
	ZeroPolicy string `yaml:"zero_policy"`
	// Average is "spectra" (ratio of channel-median spectra) or "ratios"
	// (channel median of per-channel ratios); see [Average].
	Average string `yaml:"average"`

	Initial InitialConfig `yaml:"initial"`
	Bounds  BoundsConfig  `yaml:"bounds"`

	// DelayStarts lists extra fit starts as delays in frames. The fit from
	// Initial always runs as well.
	DelayStarts   []float64 `yaml:"delay_starts"`
	MaxIterations int       `yaml:"max_iterations"`
}

// InitialConfig is the first guess, with the leak given directly.
type InitialConfig struct {
	Delay float64 `yaml:"delay"`
	Gain  float64 `yaml:"gain"`
	Leak  float64 `yaml:"leak"`
}

// BoundsConfig holds [min, max] pairs; YAML accepts .inf for an open side.
type BoundsConfig struct {
	Delay []float64 `yaml:"delay"`
	Gain  []float64 `yaml:"gain"`
	LnC   []float64 `yaml:"ln_c"`
}

// DefaultConfig returns the configuration used when a field is not set.
func DefaultConfig() Config {
	p := rejection.DefaultParams()
	b := rejection.DefaultBounds()

	return Config{
		Rate:          p.Rate,
		SegmentLength: 256,
		Axis:          -1,
		MinFrequency:  0,
		PositiveOnly:  true,
		ZeroPolicy:    "drop",
		Average:       "spectra",
		Initial: InitialConfig{
			Delay: p.Delay,
			Gain:  p.Gain,
			Leak:  p.Leak(),
		},
		Bounds: BoundsConfig{
			Delay: []float64{b.Delay.Min, b.Delay.Max},
			Gain:  []float64{b.Gain.Min, b.Gain.Max},
			LnC:   []float64{b.LnC.Min, b.LnC.Max},
		},
		DelayStarts:   []float64{0.5, 1, 2, 3},
		MaxIterations: 200,
	}
}

// LoadConfig reads a YAML file over [DefaultConfig] and validates the result.
// Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("analysis: read config: %w", err)
	}

	return ParseConfig(raw)
}

// ParseConfig decodes YAML over [DefaultConfig] and validates the result.
func ParseConfig(raw []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("analysis: parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks ranges and cross-field constraints.
func (c Config) Validate() error {
	if !(c.Rate > 0) || math.IsInf(c.Rate, 0) {
		return fmt.Errorf("%w: rate must be positive and finite: %v", ErrInvalidConfig, c.Rate)
	}
	if c.SegmentLength < 1 {
		return fmt.Errorf("%w: segment_length must be >= 1: %d", ErrInvalidConfig, c.SegmentLength)
	}
	if c.MinFrequency < 0 || math.IsNaN(c.MinFrequency) {
		return fmt.Errorf("%w: min_frequency must be >= 0: %v", ErrInvalidConfig, c.MinFrequency)
	}
	if _, err := parseZeroPolicy(c.ZeroPolicy); err != nil {
		return err
	}
	if _, err := parseAverage(c.Average); err != nil {
		return err
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("%w: max_iterations must be >= 1: %d", ErrInvalidConfig, c.MaxIterations)
	}
	for _, f := range c.DelayStarts {
		if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: delay_starts must be finite and >= 0: %v", ErrInvalidConfig, f)
		}
	}

	if _, err := c.InitialParams(); err != nil {
		return fmt.Errorf("%w: initial: %w", ErrInvalidConfig, err)
	}

	if _, err := c.FitBounds(); err != nil {
		return err
	}

	return nil
}

// InitialParams converts Initial to model parameters at Rate.
func (c Config) InitialParams() (rejection.Params, error) {
	return rejection.NewParams(c.Initial.Delay, c.Initial.Gain, c.Initial.Leak, c.Rate)
}

// FitBounds converts Bounds to model bounds.
func (c Config) FitBounds() (rejection.Bounds, error) {
	delay, err := interval("delay", c.Bounds.Delay)
	if err != nil {
		return rejection.Bounds{}, err
	}
	gain, err := interval("gain", c.Bounds.Gain)
	if err != nil {
		return rejection.Bounds{}, err
	}
	lnC, err := interval("ln_c", c.Bounds.LnC)
	if err != nil {
		return rejection.Bounds{}, err
	}

	return rejection.Bounds{Delay: delay, Gain: gain, LnC: lnC}, nil
}

func interval(name string, pair []float64) (rejection.Interval, error) {
	if len(pair) != 2 {
		return rejection.Interval{}, fmt.Errorf("%w: bounds.%s needs [min, max], got %v", ErrInvalidConfig, name, pair)
	}
	if math.IsNaN(pair[0]) || math.IsNaN(pair[1]) || pair[0] > pair[1] {
		return rejection.Interval{}, fmt.Errorf("%w: bounds.%s is empty: %v", ErrInvalidConfig, name, pair)
	}
	return rejection.Interval{Min: pair[0], Max: pair[1]}, nil
}
