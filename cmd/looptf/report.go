package main

import (
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/cwbudde/algo-looptf/internal/analysis"
	"github.com/cwbudde/algo-looptf/internal/plotting"
	"github.com/cwbudde/algo-looptf/measure/rejection"
	frequencystats "github.com/cwbudde/algo-looptf/stats/frequency"
)

// printFit writes the fitted parameters, with the true ones alongside when
// truth is not nil.
func printFit(w io.Writer, r *analysis.Report, truth *rejection.Params) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	p := r.Fit.Params
	if truth != nil {
		fmt.Fprintf(tw, "Parameter\tFitted\tTrue\n")
		fmt.Fprintf(tw, "---------\t------\t----\n")
		fmt.Fprintf(tw, "delay [s]\t%.6f\t%.6f\n", p.Delay, truth.Delay)
		fmt.Fprintf(tw, "gain\t%.4f\t%.4f\n", p.Gain, truth.Gain)
		fmt.Fprintf(tw, "leak\t%.6f\t%.6f\n", p.Leak(), truth.Leak())
	} else {
		fmt.Fprintf(tw, "Parameter\tFitted\n")
		fmt.Fprintf(tw, "---------\t------\n")
		fmt.Fprintf(tw, "delay [s]\t%.6f\n", p.Delay)
		fmt.Fprintf(tw, "gain\t%.4f\n", p.Gain)
		fmt.Fprintf(tw, "leak\t%.6f\n", p.Leak())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nrate %g Hz, %d channels, %d segments, %d bins fitted, rms %.3g after %d iterations\n",
		p.Rate, r.Channels, r.Segments, len(r.Ratio), r.Fit.RMS, r.Fit.Iterations); err != nil {
		return err
	}

	fig := r.Figures
	bw := "none"
	if fig.HasBandwidth {
		bw = fmt.Sprintf("%.1f Hz", fig.Bandwidth)
	}
	_, err := fmt.Fprintf(w, "rejection bandwidth %s, peak %.2f dB at %.1f Hz, variance ratio %.3f\n",
		bw, frequencystats.ToDB(fig.PeakGain), fig.PeakFreq, fig.VarianceRatio)
	return err
}

// savePlots writes spectra.png and rejection.png into dir.
func savePlots(dir string, r *analysis.Report) error {
	sp, err := plotting.Spectra(r.Freqs, r.Open, r.Closed)
	if err != nil {
		return err
	}
	if err := plotting.SavePNG(filepath.Join(dir, "spectra.png"), sp); err != nil {
		return err
	}

	rp, err := plotting.Rejection(r.FitFreqs, r.Ratio, r.Model)
	if err != nil {
		return err
	}
	return plotting.SavePNG(filepath.Join(dir, "rejection.png"), rp)
}
