package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrNoSamples is returned when statistics are requested over an empty set.
var ErrNoSamples = errors.New("stats: no samples")

// Summary describes a collection of peak values. StdDev is the population
// standard deviation (divide by N).
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P05    float64 `json:"p05"`
	P50    float64 `json:"p50"`
	P95    float64 `json:"p95"`
}

// MeanStdDev returns the arithmetic mean and population standard deviation.
// gonum's corrected two-pass algorithm avoids the cancellation of
// sqrt(E[x²] - E[x]²).
func MeanStdDev(x []float64) (mean, std float64, err error) {
	if len(x) == 0 {
		return 0, 0, ErrNoSamples
	}
	mean, std = stat.PopMeanStdDev(x, nil)
	return mean, std, nil
}

func Summarize(x []float64) (Summary, error) {
	mean, std, err := MeanStdDev(x)
	if err != nil {
		return Summary{}, err
	}

	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	return Summary{
		Count:  len(x),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(x),
		Max:    floats.Max(x),
		P05:    stat.Quantile(0.05, stat.Empirical, sorted, nil),
		P50:    stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P95:    stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}, nil
}

// Histogram bins x into n equal-width buckets over [min, max]. It returns
// the bucket counts and the n+1 bucket edges.
func Histogram(x []float64, n int) ([]float64, []float64, error) {
	if len(x) == 0 {
		return nil, nil, ErrNoSamples
	}
	if n < 1 {
		n = 1
	}

	lo, hi := floats.Min(x), floats.Max(x)
	if lo == hi {
		hi = lo + 1
	}
	edges := make([]float64, n+1)
	floats.Span(edges, lo, hi)
	// the top edge is exclusive in stat.Histogram
	edges[n] = math.Nextafter(hi, math.Inf(1))

	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	counts := stat.Histogram(nil, edges, sorted, nil)
	return counts, edges, nil
}
