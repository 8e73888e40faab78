package window

import (
	"strconv"
	"testing"
)

func BenchmarkCosine(b *testing.B) {
	for _, n := range []int{256, 1024, 4096, 16384} {
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = Cosine(n)
			}
		})
	}
}

func BenchmarkApplyCoefficientsInPlace(b *testing.B) {
	for _, n := range []int{256, 1024, 4096} {
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			buf := make([]float64, n)
			coeffs, _ := Cosine(n)
			for i := 0; i < b.N; i++ {
				_ = ApplyCoefficientsInPlace(buf, coeffs)
			}
		})
	}
}
