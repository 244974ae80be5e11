package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/epipeak/internal/integrators"
	"github.com/san-kum/epipeak/internal/metrics"
	"github.com/san-kum/epipeak/internal/sim"
)

var ErrInvalidParameters = errors.New("models: invalid epidemic parameters")

// Epidemic holds the parameters shared by every trial: the nominal
// population and the mean infection duration in days. Observers see every
// day of Simulate runs; Peak runs are not observed.
type Epidemic struct {
	Population float64
	Duration   float64
	Clamp      bool
	Observers  []sim.Observer
}

// Trajectory is one simulated epidemic. Series hold post-update values,
// one per day.
type Trajectory struct {
	R0          float64
	Susceptible []float64
	Infected    []float64
	Recovered   []float64
	Peak        float64
	PeakDay     int
	AttackSize  float64
	Drift       float64
}

func (e Epidemic) validate(days int) error {
	if days <= 0 {
		return fmt.Errorf("%w: days must be positive, got %d", ErrInvalidParameters, days)
	}
	if e.Population <= 0 {
		return fmt.Errorf("%w: population must be positive, got %g", ErrInvalidParameters, e.Population)
	}
	if e.Duration <= 0 {
		return fmt.Errorf("%w: infection duration must be positive, got %g", ErrInvalidParameters, e.Duration)
	}
	return nil
}

func (e Epidemic) simulator(r0 float64, record bool) (*sim.Simulator, *metrics.Peak) {
	sir := NewSIR(r0, e.Duration, e.Population)
	sir.Clamp = e.Clamp

	s := sim.New(sir, integrators.NewEuler())
	peak := metrics.NewPeak("peak_infected", Infected)
	s.AddMetric(peak)
	if record {
		s.AddMetric(metrics.NewPeakTime("peak_day", peak))
		s.AddMetric(metrics.NewFinal("attack_size", Recovered))
		s.AddMetric(metrics.NewConservation(e.Population))
	}
	return s, peak
}

// Peak runs the full horizon and returns the maximum daily infected count.
// It is a pure function of its inputs.
func (e Epidemic) Peak(ctx context.Context, r0 float64, start Compartments, days int) (float64, error) {
	if err := e.validate(days); err != nil {
		return 0, err
	}

	s, peak := e.simulator(r0, false)
	if _, err := s.Run(ctx, start.State(), sim.Config{Steps: days, Dt: 1}); err != nil {
		return 0, err
	}
	return peak.Value(), nil
}

// Simulate is Peak with the full daily series and derived metrics. A
// non-finite state fails with a sim.SimError.
func (e Epidemic) Simulate(ctx context.Context, r0 float64, start Compartments, days int) (*Trajectory, error) {
	if err := e.validate(days); err != nil {
		return nil, err
	}

	s, _ := e.simulator(r0, true)
	for _, obs := range e.Observers {
		s.AddObserver(obs)
	}
	result, err := s.Run(ctx, start.State(), sim.Config{Steps: days, Dt: 1, Record: true, ValidateState: true})
	if err != nil {
		return nil, err
	}

	traj := &Trajectory{
		R0:          r0,
		Susceptible: make([]float64, len(result.States)),
		Infected:    make([]float64, len(result.States)),
		Recovered:   make([]float64, len(result.States)),
		Peak:        result.Metrics["peak_infected"],
		PeakDay:     int(result.Metrics["peak_day"]),
		AttackSize:  result.Metrics["attack_size"],
		Drift:       result.Metrics["conservation_drift"],
	}
	for i, x := range result.States {
		traj.Susceptible[i] = x[Susceptible]
		traj.Infected[i] = x[Infected]
		traj.Recovered[i] = x[Recovered]
	}

	return traj, nil
}
