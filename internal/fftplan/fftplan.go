// Package fftplan hands out complex FFT plans of arbitrary length.
//
// Power-of-two lengths get an algo-fft plan. Every other length is served by
// gonum's mixed-radix transform: algo-fft builds plans for some mixed lengths
// (200, 1000, ...) whose output is wrong.
// Both backends follow the same convention: Forward is unnormalised and
// Inverse scales by 1/n, so Inverse(Forward(x)) == x.
package fftplan

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Plan is a reusable length-n complex transform. Plans are not safe for
// concurrent use.
type Plan interface {
	Len() int
	Forward(dst, src []complex128) error
	Inverse(dst, src []complex128) error
}

var errLength = errors.New("fftplan: buffer length does not match plan")

// New returns a plan for n points.
func New(n int) (Plan, error) {
	if n <= 0 {
		return nil, fmt.Errorf("fftplan: length must be > 0: %d", n)
	}

	if n == 1 {
		return identityPlan{}, nil
	}

	if isPowerOfTwo(n) {
		plan, err := algofft.NewPlan64(n)
		if err == nil {
			return &algoPlan{n: n, plan: plan}, nil
		}
	}

	return &gonumPlan{n: n, fft: fourier.NewCmplxFFT(n)}, nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

type algoPlan struct {
	n    int
	plan *algofft.Plan[complex128]
}

func (p *algoPlan) Len() int { return p.n }

func (p *algoPlan) Forward(dst, src []complex128) error {
	if len(dst) != p.n || len(src) != p.n {
		return errLength
	}
	if err := p.plan.Forward(dst, src); err != nil {
		return fmt.Errorf("fftplan: forward: %w", err)
	}
	return nil
}

func (p *algoPlan) Inverse(dst, src []complex128) error {
	if len(dst) != p.n || len(src) != p.n {
		return errLength
	}
	if err := p.plan.Inverse(dst, src); err != nil {
		return fmt.Errorf("fftplan: inverse: %w", err)
	}
	return nil
}

type gonumPlan struct {
	n   int
	fft *fourier.CmplxFFT
}

func (p *gonumPlan) Len() int { return p.n }

func (p *gonumPlan) Forward(dst, src []complex128) error {
	if len(dst) != p.n || len(src) != p.n {
		return errLength
	}
	p.fft.Coefficients(dst, src)
	return nil
}

func (p *gonumPlan) Inverse(dst, src []complex128) error {
	if len(dst) != p.n || len(src) != p.n {
		return errLength
	}

	p.fft.Sequence(dst, src)

	scale := complex(1/float64(p.n), 0)
	for i := range dst {
		dst[i] *= scale
	}
	return nil
}

// identityPlan is the one-point transform.
type identityPlan struct{}

func (identityPlan) Len() int { return 1 }

func (identityPlan) Forward(dst, src []complex128) error {
	if len(dst) != 1 || len(src) != 1 {
		return errLength
	}
	dst[0] = src[0]
	return nil
}

func (p identityPlan) Inverse(dst, src []complex128) error {
	return p.Forward(dst, src)
}
