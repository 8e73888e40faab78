package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-looptf/dsp/nd"
	"github.com/cwbudde/algo-looptf/dsp/spectrum"
	"github.com/cwbudde/algo-looptf/measure/rejection"
	frequencystats "github.com/cwbudde/algo-looptf/stats/frequency"
)

func truthLoop(t *testing.T) rejection.Params {
	t.Helper()
	p, err := rejection.NewParams(0.002, 0.4, 0.9, 1000)
	require.NoError(t, err)
	return p
}

func TestSimulateDeterministic(t *testing.T) {
	sim := Simulation{Channels: 3, Samples: 512, Sigma: 2, Seed: 5, Loop: truthLoop(t)}

	open1, closed1, err := Simulate(context.Background(), sim)
	require.NoError(t, err)
	open2, closed2, err := Simulate(context.Background(), sim)
	require.NoError(t, err)

	assert.Equal(t, []int{3, 512}, open1.Shape())
	assert.Equal(t, open1.Data(), open2.Data())
	assert.Equal(t, closed1.Data(), closed2.Data())

	rows, err := open1.Lanes(1)
	require.NoError(t, err)
	want, err := rejection.Filter(rows[1].Values(), sim.Loop)
	require.NoError(t, err)

	closedRows, err := closed1.Lanes(1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, closedRows[1].Values(), 1e-12)

	assert.NotEqual(t, rows[0].Values(), rows[1].Values(), "channels must be independent")
}

func TestSimulateRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	loop := truthLoop(t)

	_, _, err := Simulate(ctx, Simulation{Channels: 0, Samples: 10, Sigma: 1, Loop: loop})
	require.Error(t, err)

	_, _, err = Simulate(ctx, Simulation{Channels: 1, Samples: 10, Sigma: 0, Loop: loop})
	require.Error(t, err)

	_, _, err = Simulate(ctx, Simulation{Channels: 1, Samples: 10, Sigma: 1})
	require.ErrorIs(t, err, rejection.ErrInvalidParams)
}

func TestRunRecoversLoop(t *testing.T) {
	truth := truthLoop(t)
	cfg := DefaultConfig()

	open, closed, err := Simulate(context.Background(), Simulation{
		Channels: 4,
		Samples:  64 * cfg.SegmentLength,
		Sigma:    1,
		Seed:     42,
		Loop:     truth,
	})
	require.NoError(t, err)

	report, err := Run(context.Background(), cfg, open, closed)
	require.NoError(t, err)

	assert.Equal(t, 64, report.Segments)
	assert.Equal(t, 4, report.Channels)
	assert.Len(t, report.Freqs, cfg.SegmentLength)
	assert.Len(t, report.Open, cfg.SegmentLength)
	assert.Len(t, report.Closed, cfg.SegmentLength)
	assert.Len(t, report.Ratio, cfg.SegmentLength/2-1)
	assert.Len(t, report.Model, len(report.Ratio))

	for _, f := range report.FitFreqs {
		require.Greater(t, f, 0.0)
	}

	fig := report.Figures
	assert.True(t, fig.HasBandwidth)
	assert.Greater(t, fig.Bandwidth, 0.0)
	assert.Less(t, fig.Bandwidth, fig.PeakFreq)
	assert.Greater(t, fig.PeakGain, 1.0)

	// White open-loop power makes the variance ratio the mean rejection.
	mean := 0.0
	for _, v := range report.Model {
		mean += v
	}
	mean /= float64(len(report.Model))
	assert.InEpsilon(t, mean, fig.VarianceRatio, 0.1)

	// Open-loop power is flat, so the closed-loop centroid is that of the
	// rejection curve itself. The amplification peak pulls it below the
	// open-loop centroid.
	pf, _, err := spectrum.Positive(report.Freqs, report.Open)
	require.NoError(t, err)
	e, err := rejection.Evaluate(pf, truth)
	require.NoError(t, err)
	assert.InEpsilon(t, frequencystats.Centroid(pf, e), fig.ClosedCentroid, 0.05)
	assert.InEpsilon(t, (pf[0]+pf[len(pf)-1])/2, fig.OpenCentroid, 0.05)

	got := report.Fit.Params
	assert.InEpsilon(t, truth.Delay, got.Delay, 0.1)
	assert.InEpsilon(t, truth.Gain, got.Gain, 0.1)
	assert.InEpsilon(t, truth.Leak(), got.Leak(), 0.1)
}

func TestRunChannelAxisFirst(t *testing.T) {
	// Time on axis 0, channels on axis 1.
	truth := truthLoop(t)
	cfg := DefaultConfig()
	cfg.Axis = 0

	open, closed, err := Simulate(context.Background(), Simulation{
		Channels: 2,
		Samples:  64 * cfg.SegmentLength,
		Sigma:    1,
		Seed:     7,
		Loop:     truth,
	})
	require.NoError(t, err)

	openT, err := open.Transpose(1, 0)
	require.NoError(t, err)
	closedT, err := closed.Transpose(1, 0)
	require.NoError(t, err)

	report, err := Run(context.Background(), cfg, openT, closedT)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Channels)
	assert.InEpsilon(t, truth.Gain, report.Fit.Params.Gain, 0.1)
}

func TestRunMedianOfRatios(t *testing.T) {
	truth := truthLoop(t)
	cfg := DefaultConfig()
	cfg.Average = "ratios"

	open, closed, err := Simulate(context.Background(), Simulation{
		Channels: 3,
		Samples:  64 * cfg.SegmentLength,
		Sigma:    1,
		Seed:     17,
		Loop:     truth,
	})
	require.NoError(t, err)

	report, err := Run(context.Background(), cfg, open, closed)
	require.NoError(t, err)
	assert.Len(t, report.Ratio, cfg.SegmentLength/2-1)

	got := report.Fit.Params
	assert.InEpsilon(t, truth.Delay, got.Delay, 0.1)
	assert.InEpsilon(t, truth.Gain, got.Gain, 0.1)
	assert.InEpsilon(t, truth.Leak(), got.Leak(), 0.1)

	a, err := nd.New(2, 1024)
	require.NoError(t, err)
	strict := cfg
	strict.ZeroPolicy = "error"
	_, err = Run(context.Background(), strict, a, a)
	require.ErrorIs(t, err, ErrZeroDenominator)
}

func TestRunErrors(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()

	a, err := nd.New(2, 1024)
	require.NoError(t, err)
	b, err := nd.New(3, 1024)
	require.NoError(t, err)

	_, err = Run(ctx, cfg, a, b)
	require.Error(t, err)

	_, err = Run(ctx, cfg, nil, a)
	require.Error(t, err)

	short, err := nd.New(2, 100)
	require.NoError(t, err)
	_, err = Run(ctx, cfg, short, short)
	require.Error(t, err)

	bad := cfg
	bad.Rate = -1
	_, err = Run(ctx, bad, a, a)
	require.ErrorIs(t, err, ErrInvalidConfig)

	// All-zero records leave no usable bins under the strict policy.
	strict := cfg
	strict.ZeroPolicy = "error"
	_, err = Run(ctx, strict, a, a)
	require.ErrorIs(t, err, ErrZeroDenominator)
}
