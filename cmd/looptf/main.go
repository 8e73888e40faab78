// Command looptf estimates the disturbance rejection of a sampled control
// loop from open- and closed-loop telemetry.
//
// Usage:
//
//	looptf [--config file.yaml] <command> [flags]
//
// Examples:
//
//	looptf simulate --delay 0.002 --gain 0.4 --leak 0.9
//	looptf fit --open open.csv --closed closed.csv --plot-dir out
//	looptf model --gain 0.5 --leak 0.99
//	looptf window 64 256 1024
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
