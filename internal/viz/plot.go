package viz

import (
	"errors"
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/epipeak/internal/models"
	"github.com/san-kum/epipeak/internal/stats"
)

var ErrEmptySeries = errors.New("viz: empty series")

type PlotOptions struct {
	Width  int
	Height int
	// All plots S, I and R together; otherwise only I.
	All bool
}

func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 70, Height: 15}
}

// PlotCurve draws the daily compartments of one trajectory.
func PlotCurve(traj *models.Trajectory, opts PlotOptions) (string, error) {
	if traj == nil || len(traj.Infected) == 0 {
		return "", ErrEmptySeries
	}

	caption := fmt.Sprintf("R0=%.3f  peak %.0f on day %d", traj.R0, traj.Peak, traj.PeakDay)
	common := []asciigraph.Option{
		asciigraph.Width(opts.Width),
		asciigraph.Height(opts.Height),
		asciigraph.Precision(0),
	}

	if !opts.All {
		return asciigraph.Plot(traj.Infected, append(common,
			asciigraph.Caption("infected  "+caption),
			asciigraph.SeriesColors(asciigraph.Red),
		)...), nil
	}

	return asciigraph.PlotMany(
		[][]float64{traj.Susceptible, traj.Infected, traj.Recovered},
		append(common,
			asciigraph.Caption("S (blue) I (red) R (green)  "+caption),
			asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red, asciigraph.Green),
		)...,
	), nil
}

// PlotHistogram bins peaks into n buckets and draws the counts.
func PlotHistogram(peaks []float64, n int, opts PlotOptions) (string, error) {
	if len(peaks) == 0 {
		return "", ErrEmptySeries
	}
	counts, edges, err := stats.Histogram(peaks, n)
	if err != nil {
		return "", err
	}

	caption := fmt.Sprintf("peak distribution, %d bins over [%.0f, %.0f]",
		len(counts), edges[0], edges[len(edges)-1])
	return asciigraph.Plot(counts,
		asciigraph.Width(opts.Width),
		asciigraph.Height(opts.Height),
		asciigraph.Precision(0),
		asciigraph.Caption(caption),
	), nil
}
