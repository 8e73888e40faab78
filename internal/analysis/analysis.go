package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-looptf/dsp/nd"
	"github.com/cwbudde/algo-looptf/dsp/periodogram"
	"github.com/cwbudde/algo-looptf/dsp/spectrum"
	"github.com/cwbudde/algo-looptf/measure/rejection"
	frequencystats "github.com/cwbudde/algo-looptf/stats/frequency"
)

// Report is the outcome of [Run].
type Report struct {
	// Freqs is the full zero-centred grid; Open and Closed are the
	// channel-median spectra on it.
	Freqs  []float64
	Open   []float64
	Closed []float64

	// FitFreqs and Ratio are the bins that entered the fit; Model is the
	// fitted rejection on the same bins.
	FitFreqs []float64
	Ratio    []float64
	Model    []float64

	Fit      rejection.FitResult
	Figures  Figures
	Segments int
	Channels int
}

// Figures summarise loop performance over the positive-frequency bins.
type Figures struct {
	// Bandwidth is where the fitted rejection first reaches 0 dB; zero when
	// HasBandwidth is false.
	Bandwidth    float64
	HasBandwidth bool
	// PeakGain is the largest fitted rejection (noise amplification) and
	// PeakFreq where it occurs.
	PeakGain float64
	PeakFreq float64
	// VarianceRatio is total closed-loop over total open-loop power.
	VarianceRatio float64
	// OpenCentroid and ClosedCentroid are power-weighted mean frequencies.
	OpenCentroid   float64
	ClosedCentroid float64
}

// Run estimates both spectra, forms their ratio and fits the loop model.
// open and closed must have the same shape; every lane along cfg.Axis is one
// channel. A diverged fit is returned together with the partial report.
func Run(ctx context.Context, cfg Config, open, closed *nd.Array) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if open == nil || closed == nil {
		return nil, errors.New("analysis: nil input")
	}
	if !open.SameShape(closed) {
		return nil, fmt.Errorf("analysis: open %v and closed %v differ in shape", open.Shape(), closed.Shape())
	}

	var opts []periodogram.Option
	if cfg.Density {
		opts = append(opts, periodogram.WithSampleRate(cfg.Rate))
	}

	var ro, rc, po, pc *nd.Array
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ro, po, err = channelSpectra(gctx, open, cfg, opts)
		return err
	})
	g.Go(func() error {
		var err error
		rc, pc, err = channelSpectra(gctx, closed, cfg, opts)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	freqs, err := spectrum.Frequencies(cfg.SegmentLength, cfg.Rate)
	if err != nil {
		return nil, err
	}

	n, err := open.Dim(cfg.Axis)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Freqs:    freqs,
		Open:     po.Data(),
		Closed:   pc.Data(),
		Segments: periodogram.Segments(n, cfg.SegmentLength),
		Channels: open.Size() / n,
	}

	policy, _ := parseZeroPolicy(cfg.ZeroPolicy)
	average, _ := parseAverage(cfg.Average)
	keep := func(f float64) bool {
		if cfg.PositiveOnly && f <= 0 {
			return false
		}
		return math.Abs(f) >= cfg.MinFrequency
	}

	if average == AverageRatios {
		report.Ratio, report.FitFreqs, err = MedianRatio(rc.Data(), ro.Data(), freqs, keep, policy)
	} else {
		report.Ratio, report.FitFreqs, err = Ratio(report.Closed, report.Open, freqs, keep, policy)
	}
	if err != nil {
		return report, err
	}

	initial, _ := cfg.InitialParams()
	bounds, _ := cfg.FitBounds()

	starts := append([]rejection.Params{initial}, rejection.DelayStarts(initial, cfg.DelayStarts...)...)

	report.Fit, err = rejection.FitStarts(ctx, report.Ratio, report.FitFreqs, starts, bounds,
		rejection.WithMaxIterations(cfg.MaxIterations))
	if err != nil {
		if errors.Is(err, rejection.ErrFitDiverged) {
			report.Model, _ = rejection.Evaluate(report.FitFreqs, report.Fit.Params)
		}
		return report, err
	}

	report.Model, err = rejection.Evaluate(report.FitFreqs, report.Fit.Params)
	if err != nil {
		return report, err
	}

	report.Figures, err = figures(report)
	if err != nil {
		return report, err
	}

	return report, nil
}

func figures(r *Report) (Figures, error) {
	var fig Figures

	f, open, err := spectrum.Positive(r.Freqs, r.Open)
	if err != nil {
		return fig, err
	}
	_, closed, err := spectrum.Positive(r.Freqs, r.Closed)
	if err != nil {
		return fig, err
	}

	if len(f) > 0 {
		if fig.VarianceRatio, err = frequencystats.PowerRatio(closed, open); err != nil {
			return fig, err
		}
		fig.OpenCentroid = frequencystats.Centroid(f, open)
		fig.ClosedCentroid = frequencystats.Centroid(f, closed)
	}

	mf, model, err := spectrum.Positive(r.FitFreqs, r.Model)
	if err != nil {
		return fig, err
	}
	if len(mf) == 0 {
		return fig, nil
	}

	stats, err := frequencystats.Calculate(mf, model)
	if err != nil {
		return fig, err
	}
	fig.PeakGain, fig.PeakFreq = stats.Max, stats.MaxFreq
	fig.Bandwidth, fig.HasBandwidth = frequencystats.Crossing(mf, model, 1)

	return fig, nil
}

// channelSpectra returns the spectra of data as [channels, cfg.SegmentLength]
// rows together with their per-bin median over channels.
func channelSpectra(ctx context.Context, data *nd.Array, cfg Config, opts []periodogram.Option) (rows, median *nd.Array, err error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	psd, err := periodogram.Periodogram(data, cfg.SegmentLength, cfg.Axis, opts...)
	if err != nil {
		return nil, nil, err
	}

	last, err := psd.MoveAxis(cfg.Axis, -1)
	if err != nil {
		return nil, nil, err
	}

	rows, err = last.Reshape(psd.Size()/cfg.SegmentLength, cfg.SegmentLength)
	if err != nil {
		return nil, nil, err
	}

	median, err = rows.Median(0)
	if err != nil {
		return nil, nil, err
	}

	return rows, median, nil
}
