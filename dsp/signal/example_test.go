package signal_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-looptf/dsp/signal"
)

func ExampleGenerator_Sine() {
	g := signal.NewGenerator(signal.WithSampleRate(1000))
	x, err := g.Sine(250, 1, 5)
	if err != nil {
		panic(err)
	}
	if math.Abs(x[4]) < 1e-12 {
		x[4] = 0
	}

	fmt.Printf("%.0f %.0f %.0f %.0f %.0f\n", x[0], x[1], x[2], x[3], x[4])

	// Output:
	// 0 1 0 -1 0
}

func ExampleGenerator_Channels() {
	g := signal.NewGenerator(signal.WithSeed(3))
	telemetry, err := g.Channels(0.5, 4, 1024)
	if err != nil {
		panic(err)
	}

	fmt.Println(telemetry.Shape())

	// Output:
	// [4 1024]
}
