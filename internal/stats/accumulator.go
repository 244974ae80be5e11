package stats

import "math"

// Accumulator is a streaming mean/variance estimator (Welford). The zero
// value is ready to use.
type Accumulator struct {
	n    int
	mean float64
	m2   float64
	min  float64
	max  float64
}

func (a *Accumulator) Add(x float64) {
	a.n++
	if a.n == 1 {
		a.min, a.max = x, x
	} else {
		a.min = math.Min(a.min, x)
		a.max = math.Max(a.max, x)
	}
	delta := x - a.mean
	a.mean += delta / float64(a.n)
	a.m2 += delta * (x - a.mean)
}

// Merge folds other into a (Chan et al. pairwise update).
func (a *Accumulator) Merge(other *Accumulator) {
	if other.n == 0 {
		return
	}
	if a.n == 0 {
		*a = *other
		return
	}
	n := a.n + other.n
	delta := other.mean - a.mean
	a.mean += delta * float64(other.n) / float64(n)
	a.m2 += other.m2 + delta*delta*float64(a.n)*float64(other.n)/float64(n)
	a.min = math.Min(a.min, other.min)
	a.max = math.Max(a.max, other.max)
	a.n = n
}

func (a *Accumulator) Count() int { return a.n }

func (a *Accumulator) Mean() (float64, error) {
	if a.n == 0 {
		return 0, ErrNoSamples
	}
	return a.mean, nil
}

// StdDev returns the population standard deviation.
func (a *Accumulator) StdDev() (float64, error) {
	if a.n == 0 {
		return 0, ErrNoSamples
	}
	return math.Sqrt(a.m2 / float64(a.n)), nil
}

func (a *Accumulator) Min() float64 { return a.min }
func (a *Accumulator) Max() float64 { return a.max }
