package nd

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// Reduce collapses axis by applying fn to every lane along it. The result
// drops that axis; reducing a 1-D array yields shape [1].
func (a *Array) Reduce(axis int, fn func(values []float64) (float64, error)) (*Array, error) {
	ax, err := ResolveAxis(axis, len(a.shape))
	if err != nil {
		return nil, err
	}

	shape := make([]int, 0, len(a.shape))
	shape = append(shape, a.shape[:ax]...)
	shape = append(shape, a.shape[ax+1:]...)
	if len(shape) == 0 {
		shape = []int{1}
	}

	out, err := New(shape...)
	if err != nil {
		return nil, err
	}

	buf := make([]float64, a.shape[ax])

	var reduceErr error

	err = a.ForEachLane(ax, func(i int, l Lane) {
		if reduceErr != nil {
			return
		}

		l.CopyTo(buf)

		v, err := fn(buf)
		if err != nil {
			reduceErr = fmt.Errorf("nd: reduce lane %d: %w", i, err)
			return
		}

		out.data[i] = v
	})
	if err != nil {
		return nil, err
	}

	if reduceErr != nil {
		return nil, reduceErr
	}

	return out, nil
}

// Mean averages along axis.
func (a *Array) Mean(axis int) (*Array, error) {
	return a.Reduce(axis, func(values []float64) (float64, error) {
		return stats.Mean(values)
	})
}

// Median takes the median along axis. Telemetry with many channels is
// typically summarised this way before plotting.
func (a *Array) Median(axis int) (*Array, error) {
	return a.Reduce(axis, func(values []float64) (float64, error) {
		return stats.Median(values)
	})
}
