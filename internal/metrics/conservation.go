package metrics

import (
	"math"

	"github.com/san-kum/epipeak/internal/sim"
)

// Conservation reports the largest relative deviation of the state total
// from a nominal total.
type Conservation struct {
	name     string
	total    float64
	maxDrift float64
}

func NewConservation(total float64) *Conservation {
	return &Conservation{
		name:  "conservation_drift",
		total: total,
	}
}

func (c *Conservation) Name() string { return c.name }

func (c *Conservation) Observe(x sim.State, t float64) {
	if c.total == 0 {
		return
	}
	drift := math.Abs(x.Sum()-c.total) / math.Abs(c.total)
	c.maxDrift = math.Max(c.maxDrift, drift)
}

func (c *Conservation) Value() float64 { return c.maxDrift }

func (c *Conservation) Reset() { c.maxDrift = 0 }

// Final reports the last observed value of one component.
type Final struct {
	name  string
	index int
	last  float64
}

func NewFinal(name string, index int) *Final {
	return &Final{name: name, index: index}
}

func (f *Final) Name() string { return f.name }

func (f *Final) Observe(x sim.State, t float64) {
	if f.index < len(x) {
		f.last = x[f.index]
	}
}

func (f *Final) Value() float64 { return f.last }

func (f *Final) Reset() { f.last = 0 }
