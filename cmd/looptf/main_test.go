package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-looptf/internal/analysis"
	"github.com/cwbudde/algo-looptf/measure/rejection"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())

	return out.String(), errOut.String(), err
}

func TestWindowCommand(t *testing.T) {
	out, _, err := execute(t, "window", "9", "256")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "ENBW")
	assert.True(t, strings.HasPrefix(lines[2], "9 "))
	// Energy of a 9-point raised cosine is 3(n-1)/8 = 3.
	assert.Contains(t, lines[2], "3.0000")

	_, _, err = execute(t, "window", "abc")
	require.Error(t, err)
}

func TestWindowCommandUsesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("segment_length: 64\n"), 0o600))

	out, _, err := execute(t, "--config", path, "window")
	require.NoError(t, err)
	assert.Contains(t, out, "\n64 ")
}

func TestModelCommand(t *testing.T) {
	out, _, err := execute(t, "model", "--gain", "0.4", "--leak", "0.9", "--points", "5")
	require.NoError(t, err)

	assert.Contains(t, out, "gain=0.4")
	assert.Contains(t, out, "Rejection [dB]")
	assert.Contains(t, out, "\n500 ", "grid must end at Nyquist")

	_, _, err = execute(t, "model", "--leak", "1")
	require.ErrorIs(t, err, rejection.ErrInvalidLeak)

	_, _, err = execute(t, "model", "--points", "1")
	require.Error(t, err)
}

func TestSimulateCommand(t *testing.T) {
	dir := t.TempDir()

	out, logs, err := execute(t, "simulate", "--channels", "2", "--seed", "3", "--plot-dir", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "Parameter")
	assert.Contains(t, out, "delay [s]")
	assert.Contains(t, out, "2 channels, 64 segments")
	assert.Contains(t, out, "rejection bandwidth")
	assert.Contains(t, logs, "fit done")

	for _, name := range []string{"spectra.png", "rejection.png"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestFitCommand(t *testing.T) {
	truth, err := rejection.NewParams(0.002, 0.4, 0.9, 1000)
	require.NoError(t, err)

	open, closed, err := analysis.Simulate(context.Background(), analysis.Simulation{
		Channels: 2,
		Samples:  64 * 256,
		Sigma:    1,
		Seed:     9,
		Loop:     truth,
	})
	require.NoError(t, err)

	dir := t.TempDir()
	openPath := filepath.Join(dir, "open.csv")
	closedPath := filepath.Join(dir, "closed.csv")
	writeCSV(t, openPath, open.Data(), 2)
	writeCSV(t, closedPath, closed.Data(), 2)

	out, _, err := execute(t, "--log-level", "error", "fit", "--open", openPath, "--closed", closedPath)
	require.NoError(t, err)
	assert.Contains(t, out, "2 channels, 64 segments, 127 bins fitted")

	var delay, gain, leak float64
	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.HasPrefix(line, "delay [s]"):
			_, err = fmt.Sscanf(strings.TrimSpace(strings.TrimPrefix(line, "delay [s]")), "%g", &delay)
		case strings.HasPrefix(line, "gain"):
			_, err = fmt.Sscanf(strings.TrimSpace(strings.TrimPrefix(line, "gain")), "%g", &gain)
		case strings.HasPrefix(line, "leak"):
			_, err = fmt.Sscanf(strings.TrimSpace(strings.TrimPrefix(line, "leak")), "%g", &leak)
		}
		require.NoError(t, err)
	}

	assert.InEpsilon(t, 0.002, delay, 0.1)
	assert.InEpsilon(t, 0.4, gain, 0.1)
	assert.InEpsilon(t, 0.9, leak, 0.1)
}

func TestFitCommandErrors(t *testing.T) {
	_, _, err := execute(t, "fit", "--open", "x.csv")
	require.Error(t, err, "--closed is required")

	_, _, err = execute(t, "fit", "--open", "missing.csv", "--closed", "missing.csv")
	require.Error(t, err)
}

func TestParseTelemetry(t *testing.T) {
	arr, err := parseTelemetry(strings.NewReader("# open loop\n1, 2\n3,4\n5 ,6\n"))
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, arr.Shape())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, arr.Data())

	_, err = parseTelemetry(strings.NewReader("1,2\n3\n"))
	require.Error(t, err, "ragged rows")

	_, err = parseTelemetry(strings.NewReader("1,x\n"))
	require.Error(t, err)

	_, err = parseTelemetry(strings.NewReader(""))
	require.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "--log-level", "loud", "window")
	require.Error(t, err)
}

// writeCSV stores a row-major [channels, samples] block as one row per sample.
func writeCSV(t *testing.T, path string, data []float64, channels int) {
	t.Helper()

	samples := len(data) / channels
	var b strings.Builder
	for i := 0; i < samples; i++ {
		for c := 0; c < channels; c++ {
			if c > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%.17g", data[c*samples+i])
		}
		b.WriteByte('\n')
	}

	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
}
