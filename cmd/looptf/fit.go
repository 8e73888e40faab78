package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-looptf/dsp/nd"
	"github.com/cwbudde/algo-looptf/internal/analysis"
	"github.com/cwbudde/algo-looptf/measure/rejection"
)

func newFitCmd(a *app) *cobra.Command {
	var openPath, closedPath, plotDir string

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit the loop model to recorded telemetry",
		Long: `fit reads open- and closed-loop telemetry from CSV files, one row per
sample and one column per channel, and fits the loop model to the ratio of
their spectra. Lines starting with # are ignored.`,
		Example: `  looptf fit --open open.csv --closed closed.csv
  looptf --config looptf.yaml fit --open open.csv --closed closed.csv --plot-dir out`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			open, err := readTelemetry(openPath)
			if err != nil {
				return err
			}
			closed, err := readTelemetry(closedPath)
			if err != nil {
				return err
			}

			a.log.Infow("read telemetry", "open", openPath, "closed", closedPath, "shape", open.Shape())

			// CSV rows are samples.
			cfg := a.cfg
			cfg.Axis = 0

			report, err := analysis.Run(cmd.Context(), cfg, open, closed)
			if err != nil {
				if report == nil || !errors.Is(err, rejection.ErrFitDiverged) {
					return err
				}
				a.log.Warnw("fit diverged; reporting last iterate", "error", err)
			}

			if err := printFit(a.out, report, nil); err != nil {
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
	f.StringVar(&openPath, "open", "", "open-loop telemetry CSV")
	f.StringVar(&closedPath, "closed", "", "closed-loop telemetry CSV")
	f.StringVar(&plotDir, "plot-dir", "", "write spectra.png and rejection.png here")
	_ = cmd.MarkFlagRequired("open")
	_ = cmd.MarkFlagRequired("closed")

	return cmd
}

// readTelemetry loads a [samples, channels] array from a CSV file.
func readTelemetry(path string) (*nd.Array, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	arr, err := parseTelemetry(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return arr, nil
}

func parseTelemetry(r io.Reader) (*nd.Array, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	var (
		data     []float64
		channels int
		rows     int
	)

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if rows == 0 {
			channels = len(rec)
		}

		for i, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", rows+1, i+1, err)
			}
			data = append(data, v)
		}
		rows++
	}

	if rows == 0 {
		return nil, errors.New("no samples")
	}

	return nd.FromSlice(data, rows, channels)
}
