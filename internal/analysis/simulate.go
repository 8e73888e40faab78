package analysis

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-looptf/dsp/nd"
	"github.com/cwbudde/algo-looptf/dsp/signal"
	"github.com/cwbudde/algo-looptf/measure/rejection"
)

// Simulation describes synthetic telemetry: white open-loop disturbance on
// each channel and the same record after the loop.
type Simulation struct {
	Channels int
	Samples  int
	Sigma    float64
	Seed     int64
	Loop     rejection.Params
}

// Simulate returns open- and closed-loop arrays of shape [Channels, Samples].
// Channel c draws from seed Seed+c, so results do not depend on scheduling.
func Simulate(ctx context.Context, s Simulation) (open, closed *nd.Array, err error) {
	if s.Channels < 1 || s.Samples < 1 {
		return nil, nil, fmt.Errorf("analysis: simulation needs channels and samples >= 1, got %d x %d", s.Channels, s.Samples)
	}
	if !(s.Sigma > 0) {
		return nil, nil, fmt.Errorf("analysis: simulation sigma must be > 0: %v", s.Sigma)
	}
	if err := s.Loop.Validate(); err != nil {
		return nil, nil, err
	}

	open, err = signal.NewGenerator(signal.WithSeed(s.Seed)).Channels(s.Sigma, s.Channels, s.Samples)
	if err != nil {
		return nil, nil, err
	}
	closed, err = nd.New(s.Channels, s.Samples)
	if err != nil {
		return nil, nil, err
	}

	openRows, _ := open.Lanes(1)
	closedRows, _ := closed.Lanes(1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for c := 0; c < s.Channels; c++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			y, err := rejection.Filter(openRows[c].Values(), s.Loop)
			if err != nil {
				return fmt.Errorf("analysis: channel %d: %w", c, err)
			}

			closedRows[c].CopyFrom(y)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return open, closed, nil
}
