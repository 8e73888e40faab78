// Package rejection models and fits the disturbance-rejection transfer
// function of a sampled feedback loop.
//
// The loop is an adaptive-optics style integrator loop: a sensor that
// integrates over one frame, a computational delay tau, an actuator that
// holds its command for one frame, and a leaky-integrator controller. With
// s = 2*pi*i*f and frame period T = 1/rate:
//
//	H(f) = (1 - exp(-T*s)) / (T*s)        zero-order hold, H(0) = 1
//	D(f) = exp(-tau*s)                    pure delay
//	C(f) = g / (1 - leak*exp(-T*s))       leaky integrator
//	E(f) = |1 / (1 + D*H^2*C)|^2          closed-loop rejection
//
// E is what the ratio of closed-loop to open-loop power spectra measures.
// [Evaluate] computes it for a parameter set and [Fit] recovers tau, g and
// the leak from a measured ratio.
//
// The leak is stored as ln_c = ln(1 - leak), which keeps it strictly inside
// (0, 1) while ln_c is bounded to [-100, 0]. [LeakFromLogParam] and
// [LogParamFromLeak] convert between the two.
//
// # Usage
//
//	freqs, _ := spectrum.Frequencies(256, 1000)
//	fit, err := rejection.Fit(ratio, freqs, rejection.DefaultParams(), rejection.DefaultBounds())
//	fmt.Printf("tau=%.4fs gain=%.2f leak=%.3f\n", fit.Params.Delay, fit.Params.Gain, fit.Params.Leak())
package rejection
