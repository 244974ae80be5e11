package sim

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Sum returns the total mass held across all compartments.
func (s State) Sum() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v
	}
	return sum
}

// Dynamics is a discrete-time system: Derivative returns the per-step
// change of x at step t.
type Dynamics interface {
	Derivative(x State, t float64) State
	StateDim() int
}

// Constrained dynamics project the state back onto an admissible set after
// every step.
type Constrained interface {
	Project(x State) State
}

type Integrator interface {
	Step(dyn Dynamics, x State, t float64, dt float64) State
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, t float64)
}

type Config struct {
	Steps         int
	Dt            float64
	Record        bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Steps:  100,
		Dt:     1.0,
		Record: true,
	}
}

// Result holds the post-step states (when recorded) and final metric values.
type Result struct {
	States     []State
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e SimError) Unwrap() error {
	return ErrInvalidState
}
