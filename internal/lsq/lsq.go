// Package lsq implements a bounded Levenberg-Marquardt solver for small
// nonlinear least-squares problems.
//
// The solver minimises 0.5*sum(r_i(x)^2) subject to lower <= x <= upper.
// Jacobians are estimated with forward differences (stepping inward at an
// active bound), steps use Marquardt's diagonal scaling, parameters pinned
// against a bound are frozen for the step, and each trial point is projected
// back onto the box.
package lsq

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Status describes why Minimize stopped.
type Status int

const (
	// Converged means a tolerance was met.
	Converged Status = iota
	// Stalled means no damped step could lower the cost any further; the
	// current point is stationary to working precision.
	Stalled
	// IterationLimit means the iteration budget ran out first.
	IterationLimit
	// NonFinite means the residuals became NaN or Inf at the start point.
	NonFinite
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case Stalled:
		return "stalled"
	case IterationLimit:
		return "iteration limit"
	case NonFinite:
		return "non-finite residuals"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// OK reports whether the result is a usable minimum.
func (s Status) OK() bool {
	return s == Converged || s == Stalled
}

// ErrInfeasible is returned when the bounds admit no point.
var ErrInfeasible = errors.New("lsq: infeasible bounds")

// Problem describes the residual function and the box constraints.
type Problem struct {
	// M is the number of residuals.
	M int
	// Residuals writes the M residuals at x into dst.
	Residuals func(dst, x []float64)
	// Lower and Upper bound each parameter; use ±Inf for a free side.
	Lower, Upper []float64
}

// Settings controls termination. Zero fields take defaults.
type Settings struct {
	MaxIterations  int     // default 200
	FunctionTol    float64 // relative cost decrease, default 1e-12
	StepTol        float64 // relative step size, default 1e-10
	GradientTol    float64 // projected gradient max-norm, default 1e-14
	InitialDamping float64 // default 1e-3

	// Trace, when set, is called after every accepted step.
	Trace func(Iteration)
}

// Iteration is reported to Settings.Trace.
type Iteration struct {
	N       int
	X       []float64
	Cost    float64
	Damping float64
}

// Result is the outcome of Minimize.
type Result struct {
	X           []float64
	Cost        float64
	Iterations  int
	Evaluations int
	Status      Status
}

func (s Settings) withDefaults() Settings {
	if s.MaxIterations <= 0 {
		s.MaxIterations = 200
	}
	if s.FunctionTol <= 0 {
		s.FunctionTol = 1e-12
	}
	if s.StepTol <= 0 {
		s.StepTol = 1e-10
	}
	if s.GradientTol <= 0 {
		s.GradientTol = 1e-14
	}
	if s.InitialDamping <= 0 {
		s.InitialDamping = 1e-3
	}
	return s
}

const (
	maxDamping = 1e16
	minDamping = 1e-15
)

// Minimize runs the solver from x0, which is first projected onto the bounds.
// An error is returned only for a malformed problem; convergence is reported
// through Result.Status.
func Minimize(p Problem, x0 []float64, s Settings) (Result, error) {
	n := len(x0)
	if n == 0 || p.M < 1 || p.Residuals == nil {
		return Result{}, errors.New("lsq: empty problem")
	}
	if len(p.Lower) != n || len(p.Upper) != n {
		return Result{}, fmt.Errorf("lsq: bounds length %d/%d, want %d", len(p.Lower), len(p.Upper), n)
	}
	for j := range x0 {
		if math.IsNaN(p.Lower[j]) || math.IsNaN(p.Upper[j]) || p.Lower[j] > p.Upper[j] {
			return Result{}, fmt.Errorf("%w: parameter %d in [%v, %v]", ErrInfeasible, j, p.Lower[j], p.Upper[j])
		}
	}

	s = s.withDefaults()
	sv := &solver{p: p}

	x := make([]float64, n)
	copy(x, x0)
	sv.project(x)

	r := make([]float64, p.M)
	cost := sv.cost(r, x)

	res := Result{X: x, Cost: cost}
	if !isFinite(cost) {
		res.Status = NonFinite
		res.Evaluations = sv.evals
		return res, nil
	}

	jac := mat.NewDense(p.M, n, nil)
	var jtj mat.Dense
	var grad mat.VecDense

	aug := mat.NewDense(n, n, nil)
	rhs := mat.NewVecDense(n, nil)
	step := mat.NewVecDense(n, nil)

	active := make([]bool, n)
	trial := make([]float64, n)
	rTrial := make([]float64, p.M)

	lambda := s.InitialDamping

	res.Status = IterationLimit
	for res.Iterations < s.MaxIterations {
		res.Iterations++

		sv.jacobian(jac, x, r)
		jtj.Mul(jac.T(), jac)
		grad.MulVec(jac.T(), mat.NewVecDense(p.M, r))

		if sv.activeSet(active, &grad, x) <= s.GradientTol {
			res.Status = Converged
			break
		}

		floor := 1e-12 * maxDiag(&jtj)
		if floor == 0 {
			floor = 1e-30
		}

		accepted, converged := false, false
		for ; lambda <= maxDamping; lambda *= 10 {
			aug.Copy(&jtj)
			for j := 0; j < n; j++ {
				d := math.Max(jtj.At(j, j), floor)
				aug.Set(j, j, d*(1+lambda))
				rhs.SetVec(j, -grad.AtVec(j))
			}
			// Freeze parameters held at a bound: identity row and column,
			// zero right-hand side.
			for j := 0; j < n; j++ {
				if !active[j] {
					continue
				}
				for k := 0; k < n; k++ {
					aug.Set(j, k, 0)
					aug.Set(k, j, 0)
				}
				aug.Set(j, j, 1)
				rhs.SetVec(j, 0)
			}

			if err := step.SolveVec(aug, rhs); err != nil {
				var cond mat.Condition
				if !errors.As(err, &cond) {
					continue
				}
			}

			for j := range trial {
				trial[j] = x[j] + step.AtVec(j)
			}
			sv.project(trial)

			trialCost := sv.cost(rTrial, trial)
			if !isFinite(trialCost) || trialCost >= cost {
				continue
			}

			dx := 0.0
			for j := range trial {
				dx = math.Max(dx, math.Abs(trial[j]-x[j]))
			}
			xNorm := floats.Norm(x, math.Inf(1))
			decrease := cost - trialCost

			copy(x, trial)
			copy(r, rTrial)
			cost = trialCost
			lambda = math.Max(lambda/10, minDamping)
			accepted = true

			converged = cost == 0 ||
				decrease <= s.FunctionTol*cost ||
				dx <= s.StepTol*(xNorm+s.StepTol)
			break
		}

		if !accepted {
			res.Status = Stalled
			break
		}

		if s.Trace != nil {
			s.Trace(Iteration{N: res.Iterations, X: append([]float64(nil), x...), Cost: cost, Damping: lambda})
		}

		if converged {
			res.Status = Converged
			break
		}
	}

	res.X = x
	res.Cost = cost
	res.Evaluations = sv.evals
	return res, nil
}

func maxDiag(m *mat.Dense) float64 {
	r, _ := m.Dims()
	out := 0.0
	for i := 0; i < r; i++ {
		out = math.Max(out, m.At(i, i))
	}
	return out
}

type solver struct {
	p     Problem
	evals int
}

func (sv *solver) cost(r, x []float64) float64 {
	sv.p.Residuals(r, x)
	sv.evals++
	return 0.5 * floats.Dot(r, r)
}

func (sv *solver) project(x []float64) {
	for j := range x {
		x[j] = math.Min(math.Max(x[j], sv.p.Lower[j]), sv.p.Upper[j])
	}
}

// jacobian fills jac with forward differences around x, where r holds the
// residuals at x.
func (sv *solver) jacobian(jac *mat.Dense, x, r []float64) {
	const rel = 1.4901161193847656e-08 // sqrt(machine epsilon)

	xp := make([]float64, len(x))
	rp := make([]float64, len(r))

	for j := range x {
		h := rel * math.Max(math.Abs(x[j]), 1e-3)
		if x[j]+h > sv.p.Upper[j] {
			h = -h
		}

		copy(xp, x)
		xp[j] += h
		sv.p.Residuals(rp, xp)
		sv.evals++

		for i := range rp {
			jac.Set(i, j, (rp[i]-r[i])/h)
		}
	}
}

// activeSet marks the parameters sitting on a bound whose gradient points
// out of the box, since no feasible step can follow them, and returns the
// max-norm of the remaining gradient components.
func (sv *solver) activeSet(active []bool, g *mat.VecDense, x []float64) float64 {
	norm := 0.0
	for j := range x {
		gj := g.AtVec(j)
		active[j] = (x[j] <= sv.p.Lower[j] && gj > 0) || (x[j] >= sv.p.Upper[j] && gj < 0)
		if !active[j] {
			norm = math.Max(norm, math.Abs(gj))
		}
	}
	return norm
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
