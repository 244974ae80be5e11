package control

import (
	"errors"
	"fmt"
)

var ErrEffectiveness = errors.New("control: effectiveness must be in [0, 1)")

// Controller maps a sampled reproduction number to the effective one.
type Controller interface {
	Apply(r0 float64) float64
}

type None struct{}

func NewNone() *None { return &None{} }

func (n *None) Apply(r0 float64) float64 { return r0 }

type Effectiveness struct {
	fraction float64
}

func NewEffectiveness(fraction float64) (*Effectiveness, error) {
	if fraction < 0 || fraction >= 1 {
		return nil, fmt.Errorf("%w: got %g", ErrEffectiveness, fraction)
	}
	return &Effectiveness{fraction: fraction}, nil
}

func (e *Effectiveness) Apply(r0 float64) float64 {
	return r0 * (1 - e.fraction)
}

func (e *Effectiveness) Fraction() float64 { return e.fraction }

// For returns the controller for a control effectiveness fraction: None
// when nothing is controlled, Effectiveness otherwise.
func For(fraction float64) (Controller, error) {
	if fraction == 0 {
		return NewNone(), nil
	}
	return NewEffectiveness(fraction)
}
