package models

import "github.com/san-kum/epipeak/internal/sim"

// Compartment indices in the SIR state vector.
const (
	Susceptible = iota
	Infected
	Recovered
)

// SIR is the discrete-time SIR map for one trial. Force of infection is
// normalised by the nominal Population, not by the live S+I+R total.
type SIR struct {
	Beta       float64
	Gamma      float64
	Population float64
	// Clamp projects negative compartments to zero after every step. Off by
	// default; the unclamped map is the reference behaviour.
	Clamp bool
}

// Rates derives the per-day transmission and recovery rates from a
// reproduction number and a mean infection duration in days.
func Rates(r0, duration float64) (beta, gamma float64) {
	return r0 / duration, 1 / duration
}

func NewSIR(r0, duration, population float64) *SIR {
	beta, gamma := Rates(r0, duration)
	return &SIR{
		Beta:       beta,
		Gamma:      gamma,
		Population: population,
	}
}

func (m *SIR) StateDim() int { return 3 }

func (m *SIR) Derivative(x sim.State, t float64) sim.State {
	s, i := x[Susceptible], x[Infected]

	// explicit conversions keep the compiler from fusing multiply-adds, so
	// trajectories are bit-identical on every architecture
	newInfected := float64(m.Beta * s * i / m.Population)
	newRecovered := float64(m.Gamma * i)

	return sim.State{-newInfected, newInfected - newRecovered, newRecovered}
}

func (m *SIR) Project(x sim.State) sim.State {
	if !m.Clamp {
		return x
	}
	for i, v := range x {
		if v < 0 {
			x[i] = 0
		}
	}
	return x
}

// Compartments is a named view of an SIR state.
type Compartments struct {
	S, I, R float64
}

// InitialCompartments returns the canonical start: everyone susceptible
// except the seeded infections.
func InitialCompartments(population, infected float64) Compartments {
	return Compartments{S: population - infected, I: infected, R: 0}
}

func (c Compartments) State() sim.State {
	return sim.State{c.S, c.I, c.R}
}
