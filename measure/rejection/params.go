package rejection

import (
	"errors"
	"fmt"
	"math"
)

// DefaultRate is the loop rate assumed when none is given, in Hz.
const DefaultRate = 1000.0

// DefaultLeak is the integrator leak of [DefaultParams].
const DefaultLeak = 0.9

// MinLnC is the smallest ln_c a parameter set may carry. Below it exp(ln_c)
// underflows towards zero, and a zero-gain loop would evaluate to 0/0 at
// f = 0.
const MinLnC = -700.0

// Errors returned for invalid parameters or data.
var (
	ErrInvalidParams = errors.New("rejection: invalid parameters")
	ErrInvalidLeak   = errors.New("rejection: leak must be in (0, 1)")
	ErrInvalidData   = errors.New("rejection: invalid data")
)

// Params is one parameter set of the loop model. It is a plain value: fitting
// returns a new Params and never modifies the one it was given.
type Params struct {
	Delay float64 // tau, seconds
	Gain  float64 // g
	LnC   float64 // ln(1 - leak)
	Rate  float64 // loop rate in Hz; held fixed while fitting
}

// DefaultParams returns a zero-delay loop at half gain with leak 0.9 at
// [DefaultRate].
func DefaultParams() Params {
	return Params{
		Delay: 0,
		Gain:  0.5,
		LnC:   math.Log1p(-DefaultLeak),
		Rate:  DefaultRate,
	}
}

// NewParams builds a parameter set from a leak value instead of ln_c.
func NewParams(delay, gain, leak, rate float64) (Params, error) {
	lnC, err := LogParamFromLeak(leak)
	if err != nil {
		return Params{}, err
	}

	p := Params{Delay: delay, Gain: gain, LnC: lnC, Rate: rate}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}

	return p, nil
}

// LeakFromLogParam maps ln_c to the integrator leak, 1 - exp(ln_c).
func LeakFromLogParam(lnC float64) float64 {
	return -math.Expm1(lnC)
}

// LogParamFromLeak maps a leak in (0, 1) to ln_c = ln(1 - leak).
func LogParamFromLeak(leak float64) (float64, error) {
	if !(leak > 0 && leak < 1) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidLeak, leak)
	}
	return math.Log1p(-leak), nil
}

// Leak returns the integrator leak of p.
func (p Params) Leak() float64 {
	return LeakFromLogParam(p.LnC)
}

// WithLeak returns a copy of p with its leak replaced.
func (p Params) WithLeak(leak float64) (Params, error) {
	lnC, err := LogParamFromLeak(leak)
	if err != nil {
		return p, err
	}
	p.LnC = lnC
	return p, nil
}

// Validate checks that p can be evaluated: a positive rate, finite values and
// ln_c >= [MinLnC]. It does not check fit bounds; see [Bounds.Contains].
func (p Params) Validate() error {
	if !(p.Rate > 0) || math.IsInf(p.Rate, 0) {
		return fmt.Errorf("%w: rate must be positive and finite: %v", ErrInvalidParams, p.Rate)
	}

	for _, v := range []float64{p.Delay, p.Gain, p.LnC} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value in %+v", ErrInvalidParams, p)
		}
	}

	if p.LnC < MinLnC {
		return fmt.Errorf("%w: ln_c %v below %v", ErrInvalidParams, p.LnC, MinLnC)
	}

	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("tau=%.6gs gain=%.4g leak=%.6g rate=%gHz", p.Delay, p.Gain, p.Leak(), p.Rate)
}

// Interval is a closed range [Min, Max]; either side may be infinite.
type Interval struct {
	Min float64
	Max float64
}

// Contains reports whether v lies inside the interval.
func (i Interval) Contains(v float64) bool {
	return v >= i.Min && v <= i.Max
}

func (i Interval) clamp(v float64) float64 {
	return math.Min(math.Max(v, i.Min), i.Max)
}

func (i Interval) valid() bool {
	return !math.IsNaN(i.Min) && !math.IsNaN(i.Max) && i.Min <= i.Max
}

// Bounds limits each fitted parameter.
type Bounds struct {
	Delay Interval
	Gain  Interval
	LnC   Interval
}

// DefaultBounds returns tau >= 0, g in [0, 1] and ln_c in [-100, 0].
func DefaultBounds() Bounds {
	return Bounds{
		Delay: Interval{Min: 0, Max: math.Inf(1)},
		Gain:  Interval{Min: 0, Max: 1},
		LnC:   Interval{Min: -100, Max: 0},
	}
}

// Contains reports whether every fitted parameter of p is inside b.
func (b Bounds) Contains(p Params) bool {
	return b.Delay.Contains(p.Delay) && b.Gain.Contains(p.Gain) && b.LnC.Contains(p.LnC)
}

// Clamp returns p with each fitted parameter moved into b.
func (b Bounds) Clamp(p Params) Params {
	p.Delay = b.Delay.clamp(p.Delay)
	p.Gain = b.Gain.clamp(p.Gain)
	p.LnC = b.LnC.clamp(p.LnC)
	return p
}

func (b Bounds) valid() bool {
	return b.Delay.valid() && b.Gain.valid() && b.LnC.valid()
}
