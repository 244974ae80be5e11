package montecarlo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/san-kum/epipeak/internal/control"
	"github.com/san-kum/epipeak/internal/models"
	"github.com/san-kum/epipeak/internal/sampler"
	"github.com/san-kum/epipeak/internal/sim"
	"github.com/san-kum/epipeak/internal/stats"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// TrialError ties a failure to the trial that produced it.
type TrialError struct {
	Trial   int
	Wrapped error
}

func (e *TrialError) Error() string {
	return fmt.Sprintf("trial %d: %v", e.Trial, e.Wrapped)
}

func (e *TrialError) Unwrap() error {
	return e.Wrapped
}

// Result holds every trial's effective R0 and peak, in trial order.
type Result struct {
	R0s     []float64
	Peaks   []float64
	Summary stats.Summary
	Elapsed time.Duration
}

func (r *Result) Mean() float64   { return r.Summary.Mean }
func (r *Result) StdDev() float64 { return r.Summary.StdDev }

// ProgressFunc is called after each completed trial. Calls are serialised.
type ProgressFunc func(trial int, r0, peak float64)

type Option func(*Driver)

// WithWorkers runs trials on n goroutines, each owning factory(k).
func WithWorkers(n int, factory sampler.Factory) Option {
	return func(d *Driver) {
		d.workers = n
		d.factory = factory
	}
}

func WithProgress(fn ProgressFunc) Option {
	return func(d *Driver) { d.progress = fn }
}

// WithObserver attaches o to every Trajectory run. Trials of Run and Replay
// are not observed.
func WithObserver(o sim.Observer) Option {
	return func(d *Driver) { d.epidemic.Observers = append(d.epidemic.Observers, o) }
}

func WithLogger(entry *log.Entry) Option {
	return func(d *Driver) { d.log = entry }
}

type Driver struct {
	params   Params
	epidemic models.Epidemic
	start    models.Compartments
	control  control.Controller
	sampler  sampler.Sampler
	workers  int
	factory  sampler.Factory
	progress ProgressFunc
	progMu   sync.Mutex
	log      *log.Entry
}

// New builds a driver drawing from s. Params are validated by Run, so a
// zero-iteration driver can be built and fails when it is run.
func New(p Params, s sampler.Sampler, opts ...Option) *Driver {
	d := &Driver{
		params: p,
		epidemic: models.Epidemic{
			Population: p.Population,
			Duration:   p.InfectionDuration,
			Clamp:      p.Clamp,
		},
		start:   models.InitialCompartments(p.Population, p.InitialInfected),
		sampler: s,
		workers: 1,
		log:     log.WithField("component", "montecarlo"),
	}
	if d.sampler == nil {
		d.sampler = sampler.NewNormal()
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) Params() Params { return d.params }

func (d *Driver) controller() (control.Controller, error) {
	if d.control != nil {
		return d.control, nil
	}
	ctrl, err := control.For(d.params.ControlEffectiveness)
	if err != nil {
		return nil, err
	}
	d.control = ctrl
	return ctrl, nil
}

// Draw samples a raw R0 from s and applies control effectiveness.
func (d *Driver) Draw(s sampler.Sampler) (float64, error) {
	ctrl, err := d.controller()
	if err != nil {
		return 0, err
	}
	return ctrl.Apply(s.Sample(d.params.R0Mean, d.params.R0Std)), nil
}

// Trial simulates one epidemic for an effective R0 and returns its peak.
func (d *Driver) Trial(ctx context.Context, r0 float64) (float64, error) {
	return d.epidemic.Peak(ctx, r0, d.start, d.params.Days)
}

// Trajectory simulates one epidemic and keeps the daily series.
func (d *Driver) Trajectory(ctx context.Context, r0 float64) (*models.Trajectory, error) {
	return d.epidemic.Simulate(ctx, r0, d.start, d.params.Days)
}

// Run executes Params.Iterations trials and summarises their peaks.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	if err := d.params.Validate(); err != nil {
		return nil, err
	}
	if _, err := d.controller(); err != nil {
		return nil, err
	}

	start := time.Now()
	n := d.params.Iterations
	res := &Result{
		R0s:   make([]float64, n),
		Peaks: make([]float64, n),
	}

	workers := d.effectiveWorkers(n)

	var err error
	if workers == 1 {
		err = d.runBlock(ctx, d.sampler, res, 0, n)
	} else {
		err = d.runParallel(ctx, workers, res)
	}
	if err != nil {
		return nil, err
	}

	return d.finish(res, start, workers)
}

// Replay runs one trial per given effective R0, bypassing the sampler.
func (d *Driver) Replay(ctx context.Context, r0s []float64) (*Result, error) {
	if len(r0s) == 0 {
		return nil, ErrNoIterations
	}

	start := time.Now()
	res := &Result{
		R0s:   append([]float64(nil), r0s...),
		Peaks: make([]float64, len(r0s)),
	}
	for i, r0 := range res.R0s {
		peak, err := d.Trial(ctx, r0)
		if err != nil {
			return nil, &TrialError{Trial: i, Wrapped: err}
		}
		res.Peaks[i] = peak
		d.report(i, r0, peak)
	}

	return d.finish(res, start, 1)
}

func (d *Driver) runParallel(ctx context.Context, workers int, res *Result) error {
	n := len(res.Peaks)
	chunk := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, n)
		if lo >= hi {
			break
		}
		s := d.factory(w)
		g.Go(func() error {
			return d.runBlock(gctx, s, res, lo, hi)
		})
	}
	return g.Wait()
}

func (d *Driver) runBlock(ctx context.Context, s sampler.Sampler, res *Result, lo, hi int) error {
	for i := lo; i < hi; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		r0, err := d.Draw(s)
		if err != nil {
			return &TrialError{Trial: i, Wrapped: err}
		}
		peak, err := d.Trial(ctx, r0)
		if err != nil {
			return &TrialError{Trial: i, Wrapped: err}
		}
		res.R0s[i] = r0
		res.Peaks[i] = peak
		d.report(i, r0, peak)
	}
	return nil
}

func (d *Driver) report(trial int, r0, peak float64) {
	if d.progress == nil {
		return
	}
	d.progMu.Lock()
	defer d.progMu.Unlock()
	d.progress(trial, r0, peak)
}

// effectiveWorkers is the number of goroutines Run uses for n trials.
func (d *Driver) effectiveWorkers(n int) int {
	if d.factory == nil || d.workers < 1 {
		return 1
	}
	return min(d.workers, n)
}

func (d *Driver) finish(res *Result, start time.Time, workers int) (*Result, error) {
	summary, err := stats.Summarize(res.Peaks)
	if err != nil {
		return nil, err
	}
	res.Summary = summary
	res.Elapsed = time.Since(start)

	d.log.WithFields(log.Fields{
		"trials":  summary.Count,
		"workers": workers,
		"mean":    summary.Mean,
		"std":     summary.StdDev,
		"elapsed": res.Elapsed,
	}).Info("monte carlo run complete")

	return res, nil
}
