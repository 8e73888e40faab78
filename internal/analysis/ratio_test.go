package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatio(t *testing.T) {
	freqs := []float64{-2, -1, 0, 1, 2}
	open := []float64{4, 2, 0, 2, 4}
	closed := []float64{1, 1, 1, 1, 2}

	ratio, at, err := Ratio(closed, open, freqs, nil, ZeroDrop)
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, -1, 1, 2}, at)
	assert.Equal(t, []float64{0.25, 0.5, 0.5, 0.5}, ratio)

	_, _, err = Ratio(closed, open, freqs, nil, ZeroError)
	require.ErrorIs(t, err, ErrZeroDenominator)

	// A filter that excludes the empty bin makes the strict policy pass.
	ratio, at, err = Ratio(closed, open, freqs, func(f float64) bool { return f > 0 }, ZeroError)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, at)
	assert.Equal(t, []float64{0.5, 0.5}, ratio)
}

func TestRatioNonFinite(t *testing.T) {
	freqs := []float64{1, 2, 3}
	open := []float64{1, math.Inf(1), 1}
	closed := []float64{1, 1, math.NaN()}

	ratio, at, err := Ratio(closed, open, freqs, nil, ZeroDrop)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, at)
	assert.Equal(t, []float64{1}, ratio)

	_, _, err = Ratio(closed, []float64{1, 1, 1}, freqs, nil, ZeroError)
	require.Error(t, err)
}

func TestRatioLengthMismatch(t *testing.T) {
	_, _, err := Ratio([]float64{1}, []float64{1, 2}, []float64{1, 2}, nil, ZeroDrop)
	require.Error(t, err)
}

func TestZeroPolicyString(t *testing.T) {
	assert.Equal(t, "drop", ZeroDrop.String())
	assert.Equal(t, "error", ZeroError.String())

	p, err := parseZeroPolicy("error")
	require.NoError(t, err)
	assert.Equal(t, ZeroError, p)

	_, err = parseZeroPolicy("skip")
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestMedianRatio(t *testing.T) {
	freqs := []float64{-1, 0, 1}
	// Three channels, one row each.
	open := []float64{
		1, 0, 2,
		2, 1, 4,
		4, 0, 1,
	}
	closed := []float64{
		1, 1, 1,
		1, 3, 1,
		8, 1, 1,
	}

	ratio, at, err := MedianRatio(closed, open, freqs, nil, ZeroDrop)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 0, 1}, at)
	// Bin 0 keeps only the channel with open power.
	assert.Equal(t, []float64{1, 3, 0.5}, ratio)

	_, _, err = MedianRatio(closed, open, freqs, nil, ZeroError)
	require.ErrorIs(t, err, ErrZeroDenominator)

	ratio, at, err = MedianRatio(closed, open, freqs, func(f float64) bool { return f != 0 }, ZeroError)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 1}, at)
	assert.Equal(t, []float64{1, 0.5}, ratio)
}

func TestMedianRatioDiffersFromRatioOfMedians(t *testing.T) {
	freqs := []float64{1}
	open := []float64{1, 1, 4}
	closed := []float64{2, 4, 4}

	// Per-channel ratios 2, 4, 1; the medians alone would give 4/1.
	byChannel, _, err := MedianRatio(closed, open, freqs, nil, ZeroDrop)
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, byChannel)

	bySpectra, _, err := Ratio([]float64{4}, []float64{1}, freqs, nil, ZeroDrop)
	require.NoError(t, err)
	assert.Equal(t, []float64{4}, bySpectra)
}

func TestMedianRatioDropsEmptyBins(t *testing.T) {
	ratio, at, err := MedianRatio([]float64{1, 1}, []float64{0, 1}, []float64{1, 2}, nil, ZeroDrop)
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, at)
	assert.Equal(t, []float64{1}, ratio)
}

func TestMedianRatioLengthMismatch(t *testing.T) {
	_, _, err := MedianRatio([]float64{1, 2, 3}, []float64{1, 2, 3}, []float64{1, 2}, nil, ZeroDrop)
	require.Error(t, err)

	_, _, err = MedianRatio([]float64{1}, []float64{1, 2}, []float64{1}, nil, ZeroDrop)
	require.Error(t, err)
}

func TestAverageString(t *testing.T) {
	assert.Equal(t, "spectra", AverageSpectra.String())
	assert.Equal(t, "ratios", AverageRatios.String())

	a, err := parseAverage("ratios")
	require.NoError(t, err)
	assert.Equal(t, AverageRatios, a)

	_, err = parseAverage("mean")
	require.ErrorIs(t, err, ErrInvalidConfig)
}
