package main

import (
	"fmt"
	"math"
	"math/cmplx"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-looptf/measure/rejection"
)

func newModelCmd(a *app) *cobra.Command {
	var (
		delay, gain, leak float64
		points            int
	)

	cmd := &cobra.Command{
		Use:   "model",
		Short: "Tabulate the rejection of a loop with given parameters",
		Long: `model evaluates the loop model on a logarithmic frequency grid up to the
Nyquist frequency and prints the rejection power, the same in dB, and the
open-loop gain.`,
		Example: `  looptf model
  looptf model --delay 0.001 --gain 0.6 --leak 0.99 --points 30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := rejection.NewParams(delay, gain, leak, a.cfg.Rate)
			if err != nil {
				return err
			}
			if points < 2 {
				return fmt.Errorf("--points must be >= 2: %d", points)
			}

			freqs := logGrid(p.Rate/1000, p.Rate/2, points)
			e, err := rejection.Evaluate(freqs, p)
			if err != nil {
				return err
			}

			a.log.Debugw("evaluated model", "params", p.String(), "points", points)

			fmt.Fprintf(a.out, "%s\n\n", p)

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Frequency [Hz]\tRejection\tRejection [dB]\t|Open loop|\n")
			fmt.Fprintf(tw, "--------------\t---------\t--------------\t-----------\n")
			for i, f := range freqs {
				fmt.Fprintf(tw, "%.4g\t%.6g\t%.2f\t%.4g\n",
					f, e[i], 10*math.Log10(e[i]), cmplx.Abs(rejection.OpenLoop(f, p)))
			}
			return tw.Flush()
		},
	}

	d := rejection.DefaultParams()
	f := cmd.Flags()
	f.Float64Var(&delay, "delay", d.Delay, "loop delay in seconds")
	f.Float64Var(&gain, "gain", d.Gain, "integrator gain")
	f.Float64Var(&leak, "leak", d.Leak(), "integrator leak in (0, 1)")
	f.IntVar(&points, "points", 20, "number of frequencies")

	return cmd
}

// logGrid returns n log-spaced values from lo to hi inclusive.
func logGrid(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	step := math.Log(hi/lo) / float64(n-1)
	for i := range out {
		out[i] = lo * math.Exp(step*float64(i))
	}
	out[n-1] = hi
	return out
}
