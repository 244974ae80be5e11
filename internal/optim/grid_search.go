package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/epipeak/internal/config"
	"github.com/san-kum/epipeak/internal/experiment"
	"github.com/san-kum/epipeak/internal/stats"
)

var ErrEmptyGrid = errors.New("optim: empty parameter grid")

// Point is one evaluated grid cell.
type Point struct {
	Params  map[string]float64
	Summary stats.Summary
}

// Objective scores a summary; lower is better.
type Objective func(stats.Summary) float64

func MeanPeak(s stats.Summary) float64 { return s.Mean }

// UpperPeak scores the 95th percentile peak.
func UpperPeak(s stats.Summary) float64 { return s.P95 }

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs one experiment per grid cell, starting from base, and
// returns every cell in grid order plus the index of the best one.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, objective Objective) ([]Point, int, error) {
	if len(g.paramNames) == 0 || len(g.paramNames) != len(g.ranges) {
		return nil, -1, ErrEmptyGrid
	}
	for _, r := range g.ranges {
		if len(r) == 0 {
			return nil, -1, ErrEmptyGrid
		}
	}

	points := make([]Point, 0)
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), base, &points); err != nil {
		return nil, -1, err
	}

	best := -1
	bestScore := math.Inf(1)
	for i, p := range points {
		if score := objective(p.Summary); score < bestScore {
			bestScore = score
			best = i
		}
	}
	return points, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	points *[]Point,
) error {
	if depth == len(g.paramNames) {
		cfg := base.Clone()
		for name, v := range current {
			if err := cfg.SetParam(name, v); err != nil {
				return err
			}
		}

		exp, err := experiment.New(cfg)
		if err != nil {
			return fmt.Errorf("grid cell %v: %w", current, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return fmt.Errorf("grid cell %v: %w", current, err)
		}

		cell := make(map[string]float64, len(current))
		for k, v := range current {
			cell[k] = v
		}
		*points = append(*points, Point{Params: cell, Summary: result.Summary})
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, points); err != nil {
			return err
		}
	}
	return nil
}
