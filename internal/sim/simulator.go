package sim

import (
	"context"
	"fmt"
)

type Simulator struct {
	dyn        Dynamics
	integrator Integrator
	metrics    []Metric
	observers  []Observer
}

func New(dyn Dynamics, integrator Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run advances x0 for cfg.Steps steps. Metrics and observers see every
// post-step state; the initial state is never observed.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Metrics: make(map[string]float64, len(s.metrics)),
	}
	if cfg.Record {
		result.States = make([]State, 0, cfg.Steps)
		result.Times = make([]float64, 0, cfg.Steps)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	constrained, _ := s.dyn.(Constrained)

	x := x0.Clone()
	t := 0.0
	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		x = s.integrator.Step(s.dyn, x, t, cfg.Dt)
		if constrained != nil {
			x = constrained.Project(x)
		}
		t += cfg.Dt

		if cfg.ValidateState && !x.IsValid() {
			return result, SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
		}

		result.StepsTaken++
		for _, m := range s.metrics {
			m.Observe(x, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}

		if cfg.Record {
			result.States = append(result.States, x.Clone())
			result.Times = append(result.Times, t)
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validate(x0 State, cfg Config) error {
	if cfg.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidConfig, cfg.Steps)
	}
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if len(x0) != s.dyn.StateDim() {
		return fmt.Errorf("%w: got %d values, want %d", ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}
	return nil
}
