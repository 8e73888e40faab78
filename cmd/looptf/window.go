package main

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-looptf/dsp/window"
)

func newWindowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "window [size ...]",
		Short: "Print properties of the periodogram taper",
		Long: `window prints the coherent gain, energy, equivalent noise bandwidth, power
loss and scallop loss of the raised-cosine taper used by the periodogram.
Without arguments it uses the configured segment length.`,
		Example: `  looptf window
  looptf window 64 256 1024`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sizes := []int{a.cfg.SegmentLength}
			if len(args) > 0 {
				sizes = sizes[:0]
				for _, arg := range args {
					n, err := strconv.Atoi(arg)
					if err != nil || n < 1 {
						return fmt.Errorf("invalid size %q", arg)
					}
					sizes = append(sizes, n)
				}
			}

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Size\tCoherent Gain\tEnergy\tENBW [bins]\tPower Loss [dB]\tScallop [dB]\n")
			fmt.Fprintf(tw, "----\t-------------\t------\t-----------\t---------------\t------------\n")

			for _, n := range sizes {
				coeffs, err := window.Cosine(n)
				if errors.Is(err, window.ErrDegenerate) {
					a.log.Warnw("degenerate taper, using ones", "size", n)
				} else if err != nil {
					return err
				}

				an, err := window.Analyze(coeffs)
				if err != nil {
					return fmt.Errorf("size %d: %w", n, err)
				}

				fmt.Fprintf(tw, "%d\t%.6f\t%.4f\t%.4f\t%.4f\t%.4f\n",
					an.Length, an.CoherentGain, an.Energy, an.ENBW, an.PowerLossdB, an.ScallopLossdB)
			}

			return tw.Flush()
		},
	}
}
