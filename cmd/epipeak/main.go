package main

import (
	"fmt"
	"io"
	"os"

	"github.com/san-kum/epipeak/internal/config"
	"github.com/san-kum/epipeak/internal/logging"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	iterations int
	workers    int
	seed       uint64
	save       bool
	bins       int
	curveR0    float64
	curveAll   bool
	svgPath    string
	controls   []float64
	objective  string
	batch      int
	asJSON     bool
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. With no subcommand the root runs the
// compiled-in scenario and prints the two result lines.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "epipeak",
		Short:         "monte carlo estimate of SIR epidemic peak size",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Setup(logLevel, cmd.ErrOrStderr())
		},
		RunE: runEstimate,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".epipeak", "data directory")
	pf.StringVar(&logLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset scenario")
	pf.IntVarP(&iterations, "iterations", "n", 0, "number of trials (default from scenario)")
	pf.IntVarP(&workers, "workers", "w", 1, "parallel workers, 0 for one per CPU")
	pf.Uint64Var(&seed, "seed", 0, "random seed, 0 for system entropy")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the scenario and print mean and std dev of peaks",
		Args:  cobra.NoArgs,
		RunE:  runEstimate,
	}
	runCmd.Flags().BoolVar(&save, "save", false, "store the run in the data directory")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "run the scenario and show a styled summary",
		Args:  cobra.NoArgs,
		RunE:  runReport,
	}
	reportCmd.Flags().IntVar(&bins, "bins", 20, "histogram bins")
	reportCmd.Flags().BoolVar(&save, "save", false, "store the run in the data directory")

	curveCmd := &cobra.Command{
		Use:   "curve",
		Short: "plot one deterministic trajectory",
		Args:  cobra.NoArgs,
		RunE:  plotCurve,
	}
	curveCmd.Flags().Float64Var(&curveR0, "r0", 0, "effective R0 (default: scenario mean after control)")
	curveCmd.Flags().BoolVar(&curveAll, "all", false, "plot S, I and R")
	curveCmd.Flags().StringVar(&svgPath, "svg", "", "also write the curve to an SVG file")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "compare control effectiveness values",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64SliceVar(&controls, "controls", []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6}, "control effectiveness values")
	sweepCmd.Flags().StringVar(&objective, "objective", "mean", "ranking objective (mean, p95)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the scenario with a live view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&batch, "batch", 25, "trials per frame")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().IntVar(&bins, "bins", 20, "histogram bins")
	showCmd.Flags().BoolVar(&asJSON, "json", false, "export the run as JSON")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scenarios",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, reportCmd, curveCmd, sweepCmd, liveCmd, runsCmd, showCmd, presetsCmd)
	return rootCmd
}

// resolveConfig applies, in order: defaults or preset, config file, flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("iterations") {
		cfg.Iterations = iterations
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
