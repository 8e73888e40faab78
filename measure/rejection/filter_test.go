package rejection

import (
	"errors"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-looptf/internal/testutil"
)

func TestFilterScalesTone(t *testing.T) {
	p := loopTruth(t)

	// 50 whole cycles in the record, so the tone sits on one bin.
	for _, n := range []int{1000, 1024} {
		freq := 50 * p.Rate / float64(n)
		in := testutil.Sine(freq, p.Rate, 1, n)

		out, err := Filter(in, p)
		if err != nil {
			t.Fatalf("n=%d: Filter: %v", n, err)
		}

		gain := cmplx.Abs(Response(freq, p))
		want := make([]float64, n)
		for i, v := range in {
			want[i] = gain * v
		}
		testutil.RequireSliceNearlyEqual(t, out, want, 1e-9)
	}
}

func TestFilterZeroGainIsIdentity(t *testing.T) {
	p := DefaultParams()
	p.Gain = 0

	in := testutil.WhiteNoise(3, 1, 300)
	orig := append([]float64(nil), in...)

	out, err := Filter(in, p)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out, in, 1e-12)
	testutil.RequireSliceNearlyEqual(t, in, orig, 0)
}

func TestFilterErrors(t *testing.T) {
	if _, err := Filter(nil, DefaultParams()); !errors.Is(err, ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}

	p := DefaultParams()
	p.Rate = 0
	if _, err := Filter([]float64{1, 2, 3}, p); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams, got %v", err)
	}
}
