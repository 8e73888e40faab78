package window

import (
	"errors"
	"math"
	"testing"
)

func TestCosineEndpointsAndRange(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5, 16, 255, 256, 1024} {
		w, err := Cosine(n)
		if err != nil {
			t.Fatalf("n=%d: unexpected error %v", n, err)
		}

		if len(w) != n {
			t.Fatalf("n=%d: len=%d", n, len(w))
		}

		if w[0] != 0 || w[n-1] != 0 {
			t.Fatalf("n=%d: endpoints %v %v, want 0", n, w[0], w[n-1])
		}

		for i, v := range w {
			if v < 0 || v > 1 || math.IsNaN(v) {
				t.Fatalf("n=%d: w[%d]=%v outside [0,1]", n, i, v)
			}
		}
	}
}

func TestCosineShape(t *testing.T) {
	const n = 33

	w, _ := Cosine(n)
	mid := (n - 1) / 2

	if !almostEqual(w[mid], 1, 1e-12) {
		t.Fatalf("centre coefficient=%v want 1", w[mid])
	}

	for i := 1; i <= mid; i++ {
		if w[i] < w[i-1] {
			t.Fatalf("not rising at %d: %v < %v", i, w[i], w[i-1])
		}
	}

	for i := mid + 1; i < n; i++ {
		if w[i] > w[i-1] {
			t.Fatalf("not falling at %d: %v > %v", i, w[i], w[i-1])
		}
	}

	for i := range w {
		if !almostEqual(w[i], w[n-1-i], 1e-12) {
			t.Fatalf("asymmetric at %d: %v vs %v", i, w[i], w[n-1-i])
		}
	}
}

func TestCosineMatchesFormula(t *testing.T) {
	const n = 10

	w, _ := Cosine(n)
	for i := 1; i < n-1; i++ {
		want := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		if !almostEqual(w[i], want, 1e-15) {
			t.Fatalf("w[%d]=%v want %v", i, w[i], want)
		}
	}
}

func TestCosineDegenerate(t *testing.T) {
	w, err := Cosine(1)
	if !errors.Is(err, ErrDegenerate) {
		t.Fatalf("expected ErrDegenerate, got %v", err)
	}
	if len(w) != 1 || w[0] != 1 {
		t.Fatalf("degenerate taper=%v want [1]", w)
	}

	w, err = Cosine(0)
	if !errors.Is(err, ErrDegenerate) || len(w) != 0 {
		t.Fatalf("n=0: w=%v err=%v", w, err)
	}
}

func TestEnergy(t *testing.T) {
	const n = 1024

	w, _ := Cosine(n)
	want := 3 * float64(n-1) / 8
	if got := Energy(w); !almostEqual(got, want, 1e-9) {
		t.Fatalf("Energy=%v want %v", got, want)
	}
}

func TestAnalyze(t *testing.T) {
	w, _ := Cosine(1024)

	a, err := Analyze(w)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	if math.Abs(a.ENBW-1.5) > 1e-2 {
		t.Fatalf("ENBW=%v want ~1.5", a.ENBW)
	}

	if math.Abs(a.CoherentGain-0.5) > 1e-3 {
		t.Fatalf("CoherentGain=%v want ~0.5", a.CoherentGain)
	}

	// 10*log10(3/8) ~ -4.26 dB.
	if math.Abs(a.PowerLossdB-10*math.Log10(3.0/8.0)) > 1e-2 {
		t.Fatalf("PowerLossdB=%v", a.PowerLossdB)
	}

	// Hann scallop loss is about -1.42 dB.
	if math.Abs(a.ScallopLossdB+1.42) > 0.05 {
		t.Fatalf("ScallopLossdB=%v", a.ScallopLossdB)
	}

	if _, err := Analyze(nil); err == nil {
		t.Fatalf("expected error for empty coefficients")
	}

	if _, err := Analyze([]float64{0, 0}); err == nil {
		t.Fatalf("expected error for zero coherent gain")
	}
}

func TestApplyCoefficients(t *testing.T) {
	samples := []float64{1, 2, 3, 4}
	coeffs := []float64{0, 0.5, 0.5, 0}

	out, err := ApplyCoefficients(samples, coeffs)
	if err != nil {
		t.Fatalf("ApplyCoefficients error: %v", err)
	}

	want := []float64{0, 1, 1.5, 0}
	for i := range want {
		if !almostEqual(out[i], want[i], 1e-15) {
			t.Fatalf("out[%d]=%v want %v", i, out[i], want[i])
		}
	}

	if err := ApplyCoefficientsInPlace(samples, coeffs); err != nil {
		t.Fatalf("ApplyCoefficientsInPlace error: %v", err)
	}
	if samples[2] != 1.5 {
		t.Fatalf("in-place result=%v", samples)
	}

	if _, err := ApplyCoefficients(samples, coeffs[:2]); err == nil {
		t.Fatalf("expected length mismatch error")
	}
}

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
