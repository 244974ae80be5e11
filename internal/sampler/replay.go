package sampler

// Replay hands back a fixed sequence of draws, ignoring mean and stddev. It
// cycles when exhausted.
type Replay struct {
	values []float64
	next   int
}

func NewReplay(values ...float64) *Replay {
	return &Replay{values: values}
}

func (r *Replay) Sample(mean, stddev float64) float64 {
	if len(r.values) == 0 {
		return mean
	}
	v := r.values[r.next%len(r.values)]
	r.next++
	return v
}
