package integrators

import "github.com/san-kum/epipeak/internal/sim"

// Euler applies x + dt*f(x). With dt = 1 it is exactly the discrete-time
// update x_{t+1} = x_t + Δx_t.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn sim.Dynamics, x sim.State, t float64, dt float64) sim.State {
	dx := dyn.Derivative(x, t)
	result := make(sim.State, len(x))
	for i := range x {
		result[i] = x[i] + float64(dt*dx[i])
	}
	return result
}
