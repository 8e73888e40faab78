package rejection

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/cwbudde/algo-looptf/internal/lsq"
	"golang.org/x/sync/errgroup"
)

// ErrFitDiverged is matched by every *FitDivergedError.
var ErrFitDiverged = errors.New("rejection: fit diverged")

// FitDivergedError reports a fit that did not reach a minimum. Last holds the
// parameters of the final attempted iterate.
type FitDivergedError struct {
	Last       Params
	Iterations int
	Cost       float64
	Reason     string
}

func (e *FitDivergedError) Error() string {
	return fmt.Sprintf("rejection: fit diverged after %d iterations (%s), last %v", e.Iterations, e.Reason, e.Last)
}

// Is lets errors.Is(err, ErrFitDiverged) match.
func (e *FitDivergedError) Is(target error) bool {
	return target == ErrFitDiverged
}

// Iteration is reported to a [WithTrace] callback after each accepted step.
type Iteration struct {
	N      int
	Params Params
	Cost   float64
}

// FitResult is a successful fit.
type FitResult struct {
	Params     Params
	Cost       float64 // 0.5 * sum of squared (weighted) residuals
	RMS        float64 // root-mean-square residual
	Iterations int
}

// FitOption configures [Fit].
type FitOption func(*fitConfig)

type fitConfig struct {
	maxIter int
	tol     float64
	weights []float64
	trace   func(Iteration)
}

// WithMaxIterations sets the optimiser iteration budget (default 200).
func WithMaxIterations(n int) FitOption {
	return func(c *fitConfig) {
		if n > 0 {
			c.maxIter = n
		}
	}
}

// WithTolerance sets the relative cost-decrease tolerance.
func WithTolerance(tol float64) FitOption {
	return func(c *fitConfig) {
		if tol > 0 {
			c.tol = tol
		}
	}
}

// WithWeights scales each residual; it must be as long as the data.
// Zero weights drop a bin from the fit.
func WithWeights(w []float64) FitOption {
	weights := append([]float64(nil), w...)

	return func(c *fitConfig) {
		c.weights = weights
	}
}

// WithTrace registers a callback invoked after every accepted step. Under
// [FitStarts] the callback may be called from several goroutines at once.
func WithTrace(fn func(Iteration)) FitOption {
	return func(c *fitConfig) {
		c.trace = fn
	}
}

// Fit adjusts delay, gain and ln_c so that [Evaluate] best matches ratio (the
// closed-loop over open-loop power at freqs) in the least-squares sense. The
// rate of initial is held fixed. initial is projected into bounds before the
// first step.
//
// If the optimiser runs out of iterations, meets non-finite values, or the
// bounds are empty, the returned error is a *FitDivergedError and the returned
// result holds the last attempted parameters.
func Fit(ratio, freqs []float64, initial Params, bounds Bounds, opts ...FitOption) (FitResult, error) {
	cfg := fitConfig{maxIter: 200}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := validateFitInput(ratio, freqs, cfg.weights); err != nil {
		return FitResult{Params: initial}, err
	}

	if err := initial.Validate(); err != nil {
		return FitResult{Params: initial}, err
	}

	if !bounds.valid() {
		return FitResult{Params: initial}, &FitDivergedError{Last: initial, Reason: "infeasible bounds"}
	}

	model := make([]float64, len(freqs))
	toParams := func(x []float64) Params {
		return Params{Delay: x[0], Gain: x[1], LnC: x[2], Rate: initial.Rate}
	}

	problem := lsq.Problem{
		M: len(ratio),
		Residuals: func(dst, x []float64) {
			evaluateInto(model, freqs, toParams(x))
			for i := range dst {
				dst[i] = model[i] - ratio[i]
				if cfg.weights != nil {
					dst[i] *= cfg.weights[i]
				}
			}
		},
		Lower: []float64{bounds.Delay.Min, bounds.Gain.Min, math.Max(bounds.LnC.Min, MinLnC)},
		Upper: []float64{bounds.Delay.Max, bounds.Gain.Max, bounds.LnC.Max},
	}

	settings := lsq.Settings{
		MaxIterations: cfg.maxIter,
		FunctionTol:   cfg.tol,
	}
	if cfg.trace != nil {
		settings.Trace = func(it lsq.Iteration) {
			cfg.trace(Iteration{N: it.N, Params: toParams(it.X), Cost: it.Cost})
		}
	}

	start := bounds.Clamp(initial)

	res, err := lsq.Minimize(problem, []float64{start.Delay, start.Gain, start.LnC}, settings)
	if err != nil {
		reason := err.Error()
		if errors.Is(err, lsq.ErrInfeasible) {
			reason = "infeasible bounds"
		}
		return FitResult{Params: start}, &FitDivergedError{Last: start, Reason: reason}
	}

	last := toParams(res.X)
	result := FitResult{
		Params:     last,
		Cost:       res.Cost,
		RMS:        math.Sqrt(2 * res.Cost / float64(len(ratio))),
		Iterations: res.Iterations,
	}

	if !res.Status.OK() {
		return result, &FitDivergedError{
			Last:       last,
			Iterations: res.Iterations,
			Cost:       res.Cost,
			Reason:     res.Status.String(),
		}
	}

	return result, nil
}

func validateFitInput(ratio, freqs, weights []float64) error {
	if len(ratio) != len(freqs) {
		return fmt.Errorf("%w: %d ratio values for %d frequencies", ErrInvalidData, len(ratio), len(freqs))
	}

	if len(ratio) < 3 {
		return fmt.Errorf("%w: need at least 3 bins to fit 3 parameters, got %d", ErrInvalidData, len(ratio))
	}

	if weights != nil && len(weights) != len(ratio) {
		return fmt.Errorf("%w: %d weights for %d bins", ErrInvalidData, len(weights), len(ratio))
	}

	for i := range ratio {
		if math.IsNaN(ratio[i]) || math.IsInf(ratio[i], 0) || math.IsNaN(freqs[i]) || math.IsInf(freqs[i], 0) {
			return fmt.Errorf("%w: non-finite value at bin %d", ErrInvalidData, i)
		}
		if weights != nil && (math.IsNaN(weights[i]) || math.IsInf(weights[i], 0)) {
			return fmt.Errorf("%w: non-finite weight at bin %d", ErrInvalidData, i)
		}
	}

	return nil
}

// DelayStarts returns copies of base whose delay is set to each of the given
// frame counts, converted to seconds at base.Rate.
func DelayStarts(base Params, frames ...float64) []Params {
	out := make([]Params, len(frames))
	for i, n := range frames {
		out[i] = base
		out[i].Delay = n / base.Rate
	}
	return out
}

// FitStarts runs [Fit] from every start concurrently and returns the
// successful result with the lowest cost. The loop model has local minima in
// delay, so a handful of starts one frame apart is usually enough to find the
// global one.
//
// Invalid data aborts the whole search. If every start diverges, the error of
// the start that reached the lowest cost is returned.
func FitStarts(ctx context.Context, ratio, freqs []float64, starts []Params, bounds Bounds, opts ...FitOption) (FitResult, error) {
	if len(starts) == 0 {
		return FitResult{}, fmt.Errorf("%w: no starting points", ErrInvalidData)
	}

	results := make([]FitResult, len(starts))
	errs := make([]error, len(starts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, start := range starts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i], errs[i] = Fit(ratio, freqs, start, bounds, opts...)
			if errs[i] != nil && !errors.Is(errs[i], ErrFitDiverged) {
				return errs[i]
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return FitResult{}, err
	}

	best := -1
	for i := range results {
		if errs[i] == nil && (best < 0 || results[i].Cost < results[best].Cost) {
			best = i
		}
	}
	if best >= 0 {
		return results[best], nil
	}

	best = 0
	for i := range results {
		if results[i].Cost < results[best].Cost {
			best = i
		}
	}
	return results[best], errs[best]
}
