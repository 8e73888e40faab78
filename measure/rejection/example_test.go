package rejection_test

import (
	"fmt"

	"github.com/cwbudde/algo-looptf/dsp/spectrum"
	"github.com/cwbudde/algo-looptf/measure/rejection"
)

func ExampleEvaluate() {
	p, _ := rejection.NewParams(0.002, 0.4, 0.9, 1000)

	e, _ := rejection.Evaluate([]float64{0}, p)
	fmt.Printf("E(0) = %.3f\n", e[0])
	// Output:
	// E(0) = 0.040
}

func ExampleFit() {
	truth, _ := rejection.NewParams(0.002, 0.4, 0.9, 1000)
	freqs, _ := spectrum.Frequencies(128, truth.Rate)
	ratio, _ := rejection.Evaluate(freqs, truth)

	guess, _ := rejection.NewParams(0.0015, 0.3, 0.85, 1000)
	fit, err := rejection.Fit(ratio, freqs, guess, rejection.DefaultBounds())
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("tau=%.4fs gain=%.3f leak=%.3f\n", fit.Params.Delay, fit.Params.Gain, fit.Params.Leak())
	// Output:
	// tau=0.0020s gain=0.400 leak=0.900
}

func ExampleLeakFromLogParam() {
	lnC, _ := rejection.LogParamFromLeak(0.99)
	fmt.Printf("ln_c=%.4f leak=%.2f\n", lnC, rejection.LeakFromLogParam(lnC))
	// Output:
	// ln_c=-4.6052 leak=0.99
}
