package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-looptf/internal/analysis"
	"github.com/cwbudde/algo-looptf/measure/rejection"
)

func newSimulateCmd(a *app) *cobra.Command {
	var (
		sim      analysis.Simulation
		segments int
		delay    float64
		gain     float64
		leak     float64
		plotDir  string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Synthesize telemetry for a known loop and fit it back",
		Long: `simulate draws white open-loop noise for each channel, passes it through
the loop model, and runs the full analysis on the pair. The fitted
parameters are printed next to the true ones.`,
		Example: `  looptf simulate
  looptf simulate --delay 0.0025 --gain 0.3 --leak 0.99 --channels 8
  looptf --config looptf.yaml simulate --plot-dir out`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			truth, err := rejection.NewParams(delay, gain, leak, a.cfg.Rate)
			if err != nil {
				return err
			}
			sim.Loop = truth
			sim.Samples = segments * a.cfg.SegmentLength

			a.log.Infow("simulating", "loop", truth.String(), "channels", sim.Channels, "samples", sim.Samples, "seed", sim.Seed)

			open, closed, err := analysis.Simulate(cmd.Context(), sim)
			if err != nil {
				return err
			}

			// Simulated arrays are [channels, samples].
			cfg := a.cfg
			cfg.Axis = -1

			report, err := analysis.Run(cmd.Context(), cfg, open, closed)
			if err != nil {
				if report == nil || !errors.Is(err, rejection.ErrFitDiverged) {
					return err
				}
				a.log.Warnw("fit diverged", "error", err)
			}

			a.log.Infow("fit done", "params", report.Fit.Params.String(), "rms", report.Fit.RMS, "iterations", report.Fit.Iterations)

			if err := printFit(a.out, report, &truth); err != nil {
				return err
			}

			if plotDir != "" {
				if err := savePlots(plotDir, report); err != nil {
					return err
				}
				a.log.Infow("wrote plots", "dir", plotDir)
			}

			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&sim.Channels, "channels", 4, "number of independent channels")
	f.IntVar(&segments, "segments", 64, "record length in periodogram segments")
	f.Float64Var(&sim.Sigma, "sigma", 1, "open-loop noise standard deviation")
	f.Int64Var(&sim.Seed, "seed", 1, "random seed of the first channel")
	f.Float64Var(&delay, "delay", 0.002, "true loop delay in seconds")
	f.Float64Var(&gain, "gain", 0.4, "true integrator gain")
	f.Float64Var(&leak, "leak", 0.9, "true integrator leak in (0, 1)")
	f.StringVar(&plotDir, "plot-dir", "", "write spectra.png and rejection.png here")

	return cmd
}
