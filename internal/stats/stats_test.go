package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanStdDevPopulation(t *testing.T) {
	mean, std, err := MeanStdDev([]float64{100, 200, 300})
	require.NoError(t, err)

	assert.InDelta(t, 200.0, mean, 1e-12)
	assert.InDelta(t, math.Sqrt(20000.0/3), std, 1e-9)
	assert.InDelta(t, 81.65, std, 0.005)
}

func TestMeanStdDevSingleSample(t *testing.T) {
	mean, std, err := MeanStdDev([]float64{42})
	require.NoError(t, err)

	assert.Equal(t, 42.0, mean)
	assert.Equal(t, 0.0, std)
}

func TestMeanStdDevEmpty(t *testing.T) {
	_, _, err := MeanStdDev(nil)
	assert.ErrorIs(t, err, ErrNoSamples)

	_, err = Summarize([]float64{})
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestMeanStdDevLargeOffset(t *testing.T) {
	// spread of 1 on top of 1e9: the naive two-moment formula loses it
	x := []float64{1e9 + 1, 1e9 + 2, 1e9 + 3}

	_, std, err := MeanStdDev(x)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(2.0/3), std, 1e-6)
}

func TestSummarize(t *testing.T) {
	x := make([]float64, 0, 101)
	for i := 100; i >= 0; i-- {
		x = append(x, float64(i))
	}

	s, err := Summarize(x)
	require.NoError(t, err)

	assert.Equal(t, 101, s.Count)
	assert.InDelta(t, 50.0, s.Mean, 1e-12)
	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, 100.0, s.Max)
	assert.Equal(t, 50.0, s.P50)
	assert.True(t, s.P05 < s.P50 && s.P50 < s.P95)
	assert.Equal(t, 100.0, x[0], "input must not be reordered")
}

func TestHistogram(t *testing.T) {
	counts, edges, err := Histogram([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 10}, 5)
	require.NoError(t, err)

	assert.Len(t, counts, 5)
	assert.Len(t, edges, 6)
	total := 0.0
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, 10.0, total)
	assert.Equal(t, 2.0, counts[4], "max value lands in the last bucket")
}

func TestHistogramConstant(t *testing.T) {
	counts, _, err := Histogram([]float64{3, 3, 3}, 4)
	require.NoError(t, err)
	assert.Equal(t, 3.0, counts[0])
}

func TestAccumulatorMatchesBatch(t *testing.T) {
	x := []float64{12.5, 7.25, 99, 31, 0.5, 64, 18}

	var acc Accumulator
	for _, v := range x {
		acc.Add(v)
	}

	wantMean, wantStd, err := MeanStdDev(x)
	require.NoError(t, err)

	mean, err := acc.Mean()
	require.NoError(t, err)
	std, err := acc.StdDev()
	require.NoError(t, err)

	assert.InDelta(t, wantMean, mean, 1e-9)
	assert.InDelta(t, wantStd, std, 1e-9)
	assert.Equal(t, 0.5, acc.Min())
	assert.Equal(t, 99.0, acc.Max())
}

func TestAccumulatorMerge(t *testing.T) {
	x := []float64{100, 200, 300, 400, 500}

	var left, right, whole Accumulator
	for i, v := range x {
		whole.Add(v)
		if i < 2 {
			left.Add(v)
		} else {
			right.Add(v)
		}
	}
	left.Merge(&right)

	assert.Equal(t, whole.Count(), left.Count())
	wm, _ := whole.Mean()
	lm, _ := left.Mean()
	assert.InDelta(t, wm, lm, 1e-9)
	ws, _ := whole.StdDev()
	ls, _ := left.StdDev()
	assert.InDelta(t, ws, ls, 1e-9)

	var empty Accumulator
	empty.Merge(&whole)
	em, _ := empty.Mean()
	assert.InDelta(t, wm, em, 1e-12)
}

func TestAccumulatorEmpty(t *testing.T) {
	var acc Accumulator

	_, err := acc.Mean()
	assert.ErrorIs(t, err, ErrNoSamples)
	_, err = acc.StdDev()
	assert.ErrorIs(t, err, ErrNoSamples)
}
