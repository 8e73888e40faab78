// Package plotting renders measurement spectra and fitted rejection curves
// to PNG with gonum/plot.
package plotting

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Default image size.
const (
	Width  = 8 * vg.Inch
	Height = 5 * vg.Inch
)

var errNoData = errors.New("plotting: no positive data to plot")

// Series is one named curve.
type Series struct {
	Name string
	X, Y []float64
	// Points draws markers instead of a line.
	Points bool
}

// LogLog builds a plot with logarithmic axes. Samples with x <= 0 or y <= 0
// cannot be shown on a log axis and are skipped.
func LogLog(title, xLabel, yLabel string, series ...Series) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	p.X.Scale = plot.LogScale{}
	p.Y.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	drawn := 0
	for i, s := range series {
		xys, err := positive(s.X, s.Y)
		if err != nil {
			return nil, fmt.Errorf("plotting: series %q: %w", s.Name, err)
		}
		if len(xys) == 0 {
			continue
		}

		if s.Points {
			sc, err := plotter.NewScatter(xys)
			if err != nil {
				return nil, err
			}
			sc.GlyphStyle.Color = plotutil.Color(i)
			sc.GlyphStyle.Radius = vg.Points(1.5)
			p.Add(sc)
			p.Legend.Add(s.Name, sc)
		} else {
			line, err := plotter.NewLine(xys)
			if err != nil {
				return nil, err
			}
			line.LineStyle.Color = plotutil.Color(i)
			line.LineStyle.Width = vg.Points(1.5)
			p.Add(line)
			p.Legend.Add(s.Name, line)
		}
		drawn++
	}

	if drawn == 0 {
		return nil, errNoData
	}

	p.Legend.Top = true

	return p, nil
}

// Spectra plots open- and closed-loop power against frequency.
func Spectra(freqs, open, closed []float64) (*plot.Plot, error) {
	return LogLog("Open- and closed-loop spectra", "frequency (Hz)", "power",
		Series{Name: "open loop", X: freqs, Y: open},
		Series{Name: "closed loop", X: freqs, Y: closed},
	)
}

// Rejection plots the measured ratio as points and the fitted model as a line.
func Rejection(freqs, ratio, model []float64) (*plot.Plot, error) {
	series := []Series{{Name: "measured", X: freqs, Y: ratio, Points: true}}
	if model != nil {
		series = append(series, Series{Name: "model", X: freqs, Y: model})
	}

	return LogLog("Rejection transfer function", "frequency (Hz)", "closed / open", series...)
}

// WritePNG renders p as a PNG image of the given size.
func WritePNG(w io.Writer, p *plot.Plot, width, height vg.Length) error {
	c := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(96))
	p.Draw(draw.New(c))

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("plotting: write png: %w", err)
	}

	return nil
}

// SavePNG writes p to path at the default size, creating parent directories.
func SavePNG(path string, p *plot.Plot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("plotting: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("plotting: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := WritePNG(bw, p, Width, Height); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("plotting: %w", err)
	}

	return f.Close()
}

func positive(x, y []float64) (plotter.XYs, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("length mismatch: %d x values, %d y values", len(x), len(y))
	}

	xys := make(plotter.XYs, 0, len(x))
	for i := range x {
		if x[i] > 0 && y[i] > 0 {
			xys = append(xys, plotter.XY{X: x[i], Y: y[i]})
		}
	}

	return xys, nil
}
