package spectrum

import (
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

// Power returns |X[k]|^2 for each complex bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	PowerInto(out, in)
	return out
}

// PowerInto writes |X[k]|^2 into dst, which must be as long as in. Scratch
// buffers are pooled, so the steady state does not allocate.
func PowerInto(dst []float64, in []complex128) {
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(dst, re, im)
	scratchPool.Put(buf)
}

// PowerFromParts computes re[k]^2 + im[k]^2 into dst. All three slices must
// have the same length.
func PowerFromParts(dst, re, im []float64) {
	vecmath.Power(dst, re, im)
}
