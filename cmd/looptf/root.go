package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cwbudde/algo-looptf/internal/analysis"
)

// app carries state shared by all subcommands.
type app struct {
	out    io.Writer
	errOut io.Writer
	log    *zap.SugaredLogger
	cfg    analysis.Config

	configPath string
	logLevel   string
	devLog     bool
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, log: zap.NewNop().Sugar()}

	root := &cobra.Command{
		Use:   "looptf",
		Short: "Estimate the disturbance rejection of a sampled control loop",
		Long: `looptf measures how well a sampled feedback loop rejects disturbances.

It averages Welch periodograms of open- and closed-loop telemetry, takes
their ratio, and fits a model of integrating sensor, delay, zero-order hold
and leaky integrator to recover the delay, gain and leak of the loop.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			_ = a.log.Sync()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "analysis YAML file (defaults apply when empty)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&a.devLog, "dev", false, "human-readable development logging")

	root.AddCommand(
		newSimulateCmd(a),
		newFitCmd(a),
		newModelCmd(a),
		newWindowCmd(a),
	)

	return root
}

func (a *app) setup() error {
	level, err := zap.ParseAtomicLevel(a.logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}

	var enc zapcore.Encoder
	if a.devLog {
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
	a.log = zap.New(zapcore.NewCore(enc, zapcore.AddSync(a.errOut), level)).Sugar()

	if a.configPath == "" {
		a.cfg = analysis.DefaultConfig()
		return nil
	}

	a.cfg, err = analysis.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.log.Debugw("loaded config", "path", a.configPath, "rate", a.cfg.Rate, "segment_length", a.cfg.SegmentLength)

	return nil
}
