package periodogram

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-looptf/dsp/nd"
	"github.com/cwbudde/algo-looptf/dsp/spectrum"
	"github.com/cwbudde/algo-looptf/dsp/window"
	"github.com/cwbudde/algo-looptf/internal/fftplan"
)

// Errors returned by the estimator.
var (
	ErrInvalidLength    = errors.New("periodogram: segment length must be >= 1")
	ErrInsufficientData = errors.New("periodogram: segment length exceeds available samples")
	ErrInvalidRate      = errors.New("periodogram: sample rate must be positive")
	ErrNilData          = errors.New("periodogram: data is nil")
)

// Option configures an [Estimator].
type Option func(*config)

type config struct {
	rate float64
}

// WithSampleRate scales the estimate to power per hertz at the given rate.
// Without it the estimate is power per bin.
func WithSampleRate(rate float64) Option {
	return func(c *config) {
		c.rate = rate
	}
}

// Estimator computes averaged periodograms for one segment length. It keeps
// the taper, transform plan and scratch buffers between calls, so it is not
// safe for concurrent use; create one per goroutine.
type Estimator struct {
	length int
	taper  []float64
	scale  float64
	plan   fftplan.Plan

	in  []complex128
	out []complex128
	pow []float64
}

// New prepares an estimator for segments of the given length.
func New(length int, opts ...Option) (*Estimator, error) {
	if length < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.rate < 0 || math.IsNaN(cfg.rate) {
		return nil, fmt.Errorf("%w: %f", ErrInvalidRate, cfg.rate)
	}

	// A one-sample segment cannot be tapered; the all-ones fallback is fine.
	taper, err := window.Cosine(length)
	if err != nil && !errors.Is(err, window.ErrDegenerate) {
		return nil, err
	}

	// The two-point raised cosine is all zeros and would scale by 1/0.
	if window.Energy(taper) == 0 {
		taper = ones(length)
	}

	plan, err := fftplan.New(length)
	if err != nil {
		return nil, fmt.Errorf("periodogram: %w", err)
	}

	scale := 1 / window.Energy(taper)
	if cfg.rate > 0 {
		scale /= cfg.rate
	}

	return &Estimator{
		length: length,
		taper:  taper,
		scale:  scale,
		plan:   plan,
		in:     make([]complex128, length),
		out:    make([]complex128, length),
		pow:    make([]float64, length),
	}, nil
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

// Length returns the segment length.
func (e *Estimator) Length() int { return e.length }

// Taper returns a copy of the taper applied to every segment.
func (e *Estimator) Taper() []float64 { return append([]float64(nil), e.taper...) }

// Segments returns how many whole segments of length fit in n samples.
func Segments(n, length int) int {
	if length < 1 || n < 0 {
		return 0
	}
	return n / length
}

// Estimate returns the averaged periodogram of data along axis. The result
// has the shape of data with that axis resized to the segment length. data is
// not modified.
func (e *Estimator) Estimate(data *nd.Array, axis int) (*nd.Array, error) {
	if data == nil {
		return nil, ErrNilData
	}

	ax, err := nd.ResolveAxis(axis, data.NDim())
	if err != nil {
		return nil, err
	}

	shape := data.Shape()
	n := shape[ax]

	k := Segments(n, e.length)
	if k == 0 {
		return nil, fmt.Errorf("%w: length %d, %d samples on axis %d", ErrInsufficientData, e.length, n, axis)
	}

	trimmed, err := data.Slice(ax, 0, k*e.length)
	if err != nil {
		return nil, err
	}

	// Split the time axis into (segment, sample).
	segShape := make([]int, 0, len(shape)+1)
	segShape = append(segShape, shape[:ax]...)
	segShape = append(segShape, k, e.length)
	segShape = append(segShape, shape[ax+1:]...)

	segs, err := trimmed.Reshape(segShape...)
	if err != nil {
		return nil, err
	}

	taper, err := nd.Expand(e.taper, len(segShape), ax+1)
	if err != nil {
		return nil, err
	}

	if err := segs.MulBroadcast(taper); err != nil {
		return nil, err
	}

	var fftErr error

	err = segs.ForEachLane(ax+1, func(_ int, l nd.Lane) {
		if fftErr != nil {
			return
		}
		fftErr = e.transformLane(l)
	})
	if err != nil {
		return nil, err
	}

	if fftErr != nil {
		return nil, fftErr
	}

	return segs.Mean(ax)
}

// transformLane replaces a tapered segment with its scaled, zero-centred power.
func (e *Estimator) transformLane(l nd.Lane) error {
	for j := range e.in {
		e.in[j] = complex(l.At(j), 0)
	}

	if err := e.plan.Forward(e.out, e.in); err != nil {
		return fmt.Errorf("periodogram: %w", err)
	}

	spectrum.PowerInto(e.pow, e.out)

	for i := 0; i < e.length; i++ {
		l.Set(i, e.pow[spectrum.ShiftIndex(i, e.length)]*e.scale)
	}

	return nil
}

// Periodogram estimates the power spectrum of data along axis using segments
// of the given length. It is shorthand for New followed by Estimate.
func Periodogram(data *nd.Array, length, axis int, opts ...Option) (*nd.Array, error) {
	est, err := New(length, opts...)
	if err != nil {
		return nil, err
	}

	return est.Estimate(data, axis)
}

// Series is a convenience wrapper for a 1-D series.
func Series(x []float64, length int, opts ...Option) ([]float64, error) {
	data, err := nd.FromSlice(x, len(x))
	if err != nil {
		return nil, err
	}

	out, err := Periodogram(data, length, 0, opts...)
	if err != nil {
		return nil, err
	}

	return out.Data(), nil
}
