package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// ErrZeroDenominator is returned by [Ratio] under [ZeroError] when an
// open-loop bin has no power.
var ErrZeroDenominator = errors.New("analysis: zero open-loop power")

// ZeroPolicy decides what [Ratio] does with bins whose open-loop power is
// zero or not finite.
type ZeroPolicy int

const (
	// ZeroDrop leaves such bins out of the result.
	ZeroDrop ZeroPolicy = iota
	// ZeroError fails on the first such bin.
	ZeroError
)

func (p ZeroPolicy) String() string {
	switch p {
	case ZeroDrop:
		return "drop"
	case ZeroError:
		return "error"
	default:
		return fmt.Sprintf("ZeroPolicy(%d)", int(p))
	}
}

func parseZeroPolicy(s string) (ZeroPolicy, error) {
	switch s {
	case "", "drop":
		return ZeroDrop, nil
	case "error":
		return ZeroError, nil
	default:
		return 0, fmt.Errorf("%w: zero_policy must be \"drop\" or \"error\": %q", ErrInvalidConfig, s)
	}
}

// Average selects the order of channel averaging and division.
type Average int

const (
	// AverageSpectra takes the channel median of each spectrum, then their
	// ratio.
	AverageSpectra Average = iota
	// AverageRatios divides every channel's spectra first and takes the
	// channel median of the ratios.
	AverageRatios
)

func (a Average) String() string {
	switch a {
	case AverageSpectra:
		return "spectra"
	case AverageRatios:
		return "ratios"
	default:
		return fmt.Sprintf("Average(%d)", int(a))
	}
}

func parseAverage(s string) (Average, error) {
	switch s {
	case "", "spectra":
		return AverageSpectra, nil
	case "ratios":
		return AverageRatios, nil
	default:
		return 0, fmt.Errorf("%w: average must be \"spectra\" or \"ratios\": %q", ErrInvalidConfig, s)
	}
}

// Ratio divides closed by open bin by bin and returns the ratios with the
// frequencies they belong to. keep, when non-nil, pre-selects bins.
func Ratio(closed, open, freqs []float64, keep func(f float64) bool, policy ZeroPolicy) (ratio, at []float64, err error) {
	if len(closed) != len(open) || len(open) != len(freqs) {
		return nil, nil, fmt.Errorf("analysis: ratio length mismatch: closed %d, open %d, freqs %d", len(closed), len(open), len(freqs))
	}

	ratio = make([]float64, 0, len(freqs))
	at = make([]float64, 0, len(freqs))

	for i, f := range freqs {
		if keep != nil && !keep(f) {
			continue
		}

		den := open[i]
		if den == 0 || math.IsNaN(den) || math.IsInf(den, 0) {
			if policy == ZeroError {
				return nil, nil, fmt.Errorf("%w: bin %d (%g Hz)", ErrZeroDenominator, i, f)
			}
			continue
		}

		r := closed[i] / den
		if math.IsNaN(r) || math.IsInf(r, 0) {
			if policy == ZeroError {
				return nil, nil, fmt.Errorf("analysis: non-finite ratio at bin %d (%g Hz)", i, f)
			}
			continue
		}

		ratio = append(ratio, r)
		at = append(at, f)
	}

	return ratio, at, nil
}

// MedianRatio divides closed by open channel by channel and returns the
// per-bin median over channels. closed and open are row-major
// [channels][len(freqs)] blocks. Under [ZeroDrop] a channel with no usable
// ratio at a bin is left out of that bin's median, and a bin with none at all
// is dropped.
func MedianRatio(closed, open, freqs []float64, keep func(f float64) bool, policy ZeroPolicy) (ratio, at []float64, err error) {
	n := len(freqs)
	if n == 0 || len(open) != len(closed) || len(open)%n != 0 {
		return nil, nil, fmt.Errorf("analysis: ratio length mismatch: closed %d, open %d, freqs %d", len(closed), len(open), n)
	}
	channels := len(open) / n

	ratio = make([]float64, 0, n)
	at = make([]float64, 0, n)
	buf := make([]float64, 0, channels)

	for i, f := range freqs {
		if keep != nil && !keep(f) {
			continue
		}

		buf = buf[:0]
		for c := 0; c < channels; c++ {
			den := open[c*n+i]
			if den == 0 || math.IsNaN(den) || math.IsInf(den, 0) {
				if policy == ZeroError {
					return nil, nil, fmt.Errorf("%w: channel %d bin %d (%g Hz)", ErrZeroDenominator, c, i, f)
				}
				continue
			}

			r := closed[c*n+i] / den
			if math.IsNaN(r) || math.IsInf(r, 0) {
				if policy == ZeroError {
					return nil, nil, fmt.Errorf("analysis: non-finite ratio at channel %d bin %d (%g Hz)", c, i, f)
				}
				continue
			}
			buf = append(buf, r)
		}

		if len(buf) == 0 {
			continue
		}

		m, err := stats.Median(buf)
		if err != nil {
			return nil, nil, err
		}
		ratio = append(ratio, m)
		at = append(at, f)
	}

	return ratio, at, nil
}
