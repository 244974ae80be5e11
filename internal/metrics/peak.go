package metrics

import (
	"math"

	"github.com/san-kum/epipeak/internal/sim"
)

// Peak tracks the maximum of one state component and the time it was reached.
type Peak struct {
	name    string
	index   int
	max     float64
	at      float64
	samples int
}

func NewPeak(name string, index int) *Peak {
	p := &Peak{name: name, index: index}
	p.Reset()
	return p
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(x sim.State, t float64) {
	if p.index >= len(x) {
		return
	}
	p.samples++
	// strict comparison keeps the earliest time on ties
	if x[p.index] > p.max {
		p.max = x[p.index]
		p.at = t
	}
}

func (p *Peak) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.max
}

// At returns the time of the peak.
func (p *Peak) At() float64 { return p.at }

func (p *Peak) Reset() {
	p.max = math.Inf(-1)
	p.at = 0
	p.samples = 0
}

// PeakTime exposes the time of a Peak as its own metric.
type PeakTime struct {
	name string
	peak *Peak
}

func NewPeakTime(name string, peak *Peak) *PeakTime {
	return &PeakTime{name: name, peak: peak}
}

func (p *PeakTime) Name() string { return p.name }

// Observe is a no-op; the wrapped Peak does the tracking.
func (p *PeakTime) Observe(x sim.State, t float64) {}

func (p *PeakTime) Value() float64 { return p.peak.At() }

func (p *PeakTime) Reset() {}
