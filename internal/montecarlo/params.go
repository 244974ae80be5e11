package montecarlo

import (
	"errors"
	"fmt"
)

var (
	// ErrNoIterations is returned for a run with zero or negative trials;
	// the mean of an empty peak collection is undefined.
	ErrNoIterations = errors.New("montecarlo: iterations must be positive")

	ErrInvalidParams = errors.New("montecarlo: invalid parameters")
)

// Params are the immutable inputs of one Monte Carlo run.
type Params struct {
	Days                 int
	Iterations           int
	Population           float64
	InitialInfected      float64
	InfectionDuration    float64
	R0Mean               float64
	R0Std                float64
	ControlEffectiveness float64
	Clamp                bool
}

// DefaultParams is the compiled-in scenario: Spain's population, a
// hundred seeded infections and 30% effective control measures.
func DefaultParams() Params {
	return Params{
		Days:                 100,
		Iterations:           2000,
		Population:           47500000,
		InitialInfected:      100,
		InfectionDuration:    7.0,
		R0Mean:               2.5,
		R0Std:                0.2,
		ControlEffectiveness: 0.3,
	}
}

func (p Params) Validate() error {
	if p.Iterations <= 0 {
		return fmt.Errorf("%w: got %d", ErrNoIterations, p.Iterations)
	}
	switch {
	case p.Days <= 0:
		return fmt.Errorf("%w: days must be positive, got %d", ErrInvalidParams, p.Days)
	case p.Population <= 0:
		return fmt.Errorf("%w: population must be positive, got %g", ErrInvalidParams, p.Population)
	case p.InfectionDuration <= 0:
		return fmt.Errorf("%w: infection duration must be positive, got %g", ErrInvalidParams, p.InfectionDuration)
	case p.InitialInfected < 0 || p.InitialInfected > p.Population:
		return fmt.Errorf("%w: initial infected must be in [0, population], got %g", ErrInvalidParams, p.InitialInfected)
	case p.R0Std < 0:
		return fmt.Errorf("%w: r0 std must be non-negative, got %g", ErrInvalidParams, p.R0Std)
	case p.ControlEffectiveness < 0 || p.ControlEffectiveness >= 1:
		return fmt.Errorf("%w: control effectiveness must be in [0, 1), got %g", ErrInvalidParams, p.ControlEffectiveness)
	}
	return nil
}
