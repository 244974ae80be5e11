package experiment

import (
	"context"
	"runtime"

	"github.com/san-kum/epipeak/internal/config"
	"github.com/san-kum/epipeak/internal/montecarlo"
	"github.com/san-kum/epipeak/internal/sampler"
	log "github.com/sirupsen/logrus"
)

// Experiment binds a validated Config to a Monte Carlo driver.
type Experiment struct {
	cfg     *config.Config
	driver  *montecarlo.Driver
	workers int
	log     *log.Entry
}

// New validates cfg and builds its driver. A non-zero Seed makes the run
// reproducible; worker k then draws from seed+k. Workers == 0 means one
// worker per CPU.
func New(cfg *config.Config, opts ...montecarlo.Option) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		s       sampler.Sampler
		factory sampler.Factory
	)
	if cfg.Seed != 0 {
		s = sampler.NewSeeded(cfg.Seed)
		factory = sampler.SeededFactory(cfg.Seed)
	} else {
		s = sampler.NewNormal()
		factory = sampler.EntropyFactory()
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	entry := log.WithFields(log.Fields{
		"component": "experiment",
		"scenario":  cfg.Name,
	})

	all := append([]montecarlo.Option{
		montecarlo.WithWorkers(workers, factory),
		montecarlo.WithLogger(entry),
	}, opts...)

	return &Experiment{
		cfg:     cfg,
		driver:  montecarlo.New(cfg.Params(), s, all...),
		workers: workers,
		log:     entry,
	}, nil
}

func (e *Experiment) Run(ctx context.Context) (*montecarlo.Result, error) {
	e.log.WithFields(log.Fields{
		"iterations": e.cfg.Iterations,
		"workers":    min(e.workers, e.cfg.Iterations),
		"seeded":     e.cfg.Seed != 0,
	}).Debug("starting experiment")

	return e.driver.Run(ctx)
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Workers is the resolved worker count; a configured 0 becomes NumCPU.
func (e *Experiment) Workers() int { return e.workers }

// Driver returns the underlying driver for single trials and replays.
func (e *Experiment) Driver() *montecarlo.Driver { return e.driver }
