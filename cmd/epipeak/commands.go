package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olekukonko/tablewriter"
	"github.com/san-kum/epipeak/internal/config"
	"github.com/san-kum/epipeak/internal/control"
	"github.com/san-kum/epipeak/internal/experiment"
	"github.com/san-kum/epipeak/internal/export"
	"github.com/san-kum/epipeak/internal/logging"
	"github.com/san-kum/epipeak/internal/models"
	"github.com/san-kum/epipeak/internal/montecarlo"
	"github.com/san-kum/epipeak/internal/optim"
	"github.com/san-kum/epipeak/internal/sampler"
	"github.com/san-kum/epipeak/internal/storage"
	"github.com/san-kum/epipeak/internal/viz"
	"github.com/spf13/cobra"
)

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}

func execute(cmd *cobra.Command) (*config.Config, *montecarlo.Result, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	res, err := exp.Run(ctx)
	if err != nil {
		return nil, nil, err
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return nil, nil, err
		}
		runID, err := st.Save(cfg, res)
		if err != nil {
			return nil, nil, err
		}
		logging.Component("cli").WithField("run", runID).Info("run saved")
		fmt.Fprintf(cmd.ErrOrStderr(), "saved run: %s\n", runID)
	}
	return cfg, res, nil
}

func runEstimate(cmd *cobra.Command, args []string) error {
	_, res, err := execute(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Mean peak infected: %.2f\n", res.Mean())
	fmt.Fprintf(out, "Std dev of peaks: %.2f\n", res.StdDev())
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, res, err := execute(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.RenderSummary(cfg.Name, cfg.Params(), res.Summary, res.Elapsed))

	hist, err := viz.PlotHistogram(res.Peaks, bins, viz.DefaultPlotOptions())
	if err != nil {
		return err
	}
	fmt.Fprintln(out, hist)
	return nil
}

func plotCurve(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	daily := models.NewDailyLog(logging.Component("curve"))
	exp, err := experiment.New(cfg, montecarlo.WithObserver(daily))
	if err != nil {
		return err
	}

	r0 := curveR0
	if !cmd.Flags().Changed("r0") {
		ctrl, err := control.For(cfg.Control.Effectiveness)
		if err != nil {
			return err
		}
		r0 = ctrl.Apply(cfg.R0.Mean)
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	traj, err := exp.Driver().Trajectory(ctx, r0)
	if err != nil {
		return err
	}

	opts := viz.DefaultPlotOptions()
	opts.All = curveAll
	chart, err := viz.PlotCurve(traj, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, chart)
	fmt.Fprintf(out, "peak: %.2f (day %d)\n", traj.Peak, traj.PeakDay)
	fmt.Fprintf(out, "attack size: %.2f\n", traj.AttackSize)
	fmt.Fprintf(out, "conservation drift: %.3e\n", traj.Drift)

	if svgPath != "" {
		f, err := os.Create(svgPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WriteCurveSVG(f, traj, 800, 400); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", svgPath)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	obj := optim.MeanPeak
	switch objective {
	case "mean":
	case "p95":
		obj = optim.UpperPeak
	default:
		return fmt.Errorf("unknown objective: %s (available: mean, p95)", objective)
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	search := optim.NewGridSearch([]string{"control_effectiveness"}, [][]float64{controls})
	points, best, err := search.Search(ctx, cfg, obj)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Control", "Effective R0", "Mean peak", "Std dev", "P95", ""})
	for i, p := range points {
		c := p.Params["control_effectiveness"]
		mark := ""
		if i == best {
			mark = "*"
		}
		table.Append([]string{
			fmt.Sprintf("%.0f%%", c*100),
			fmt.Sprintf("%.3f", cfg.R0.Mean*(1-c)),
			fmt.Sprintf("%.0f", p.Summary.Mean),
			fmt.Sprintf("%.0f", p.Summary.StdDev),
			fmt.Sprintf("%.0f", p.Summary.P95),
			mark,
		})
	}
	table.Render()
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	var s sampler.Sampler = sampler.NewNormal()
	if cfg.Seed != 0 {
		s = sampler.NewSeeded(cfg.Seed)
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	m := viz.NewLiveModel(ctx, cfg.Name, exp.Driver(), s, batch)
	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if lm, ok := final.(viz.LiveModel); ok && lm.Err() != nil {
		return lm.Err()
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"ID", "Scenario", "Time", "Trials", "Mean peak", "Std dev"})
	for _, run := range runs {
		table.Append([]string{
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			strconv.Itoa(run.Summary.Count),
			fmt.Sprintf("%.0f", run.Summary.Mean),
			fmt.Sprintf("%.0f", run.Summary.StdDev),
		})
	}
	table.Render()
	return nil
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	out := cmd.OutOrStdout()

	if asJSON {
		return st.ExportJSON(out, args[0])
	}

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	_, peaks, err := st.LoadPeaks(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(out, viz.RenderSummary(meta.Scenario, meta.Params, meta.Summary, meta.Elapsed))
	if len(peaks) > 0 {
		hist, err := viz.PlotHistogram(peaks, bins, viz.DefaultPlotOptions())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, hist)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Preset", "Days", "Population", "R0", "Control", "Trials"})
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name).Params()
		table.Append([]string{
			name,
			strconv.Itoa(p.Days),
			fmt.Sprintf("%.0f", p.Population),
			fmt.Sprintf("N(%g, %g)", p.R0Mean, p.R0Std),
			fmt.Sprintf("%.0f%%", p.ControlEffectiveness*100),
			strconv.Itoa(p.Iterations),
		})
	}
	table.Render()
	return nil
}
