package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/epipeak/internal/models"
)

type Series struct {
	Name   string
	Color  string
	Values []float64
}

// CurveSeries returns the S, I and R series of a trajectory.
func CurveSeries(traj *models.Trajectory) []Series {
	return []Series{
		{Name: "susceptible", Color: "#4488ff", Values: traj.Susceptible},
		{Name: "infected", Color: "#ff4444", Values: traj.Infected},
		{Name: "recovered", Color: "#00cc66", Values: traj.Recovered},
	}
}

// SeriesToSVG draws each series as a polyline against day index. All series
// share one y scale.
func SeriesToSVG(series []Series, width, height int) string {
	minY, maxY := 0.0, 0.0
	days := 0
	for _, s := range series {
		days = max(days, len(s.Values))
		for _, v := range s.Values {
			minY = min(minY, v)
			maxY = max(maxY, v)
		}
	}
	if days < 2 {
		return ""
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.05
	maxY += rangeY * 0.05
	rangeY = maxY - minY
	rangeX := float64(days - 1)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, s := range series {
		if len(s.Values) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path id="%s" fill="none" stroke="%s" stroke-width="1.5" d="M`, s.Name, s.Color))
		for i, v := range s.Values {
			x := float64(i) / rangeX * float64(width)
			y := float64(height) - (v-minY)/rangeY*float64(height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// WriteCurveSVG renders a trajectory's compartments to w.
func WriteCurveSVG(w io.Writer, traj *models.Trajectory, width, height int) error {
	svg := SeriesToSVG(CurveSeries(traj), width, height)
	if svg == "" {
		return fmt.Errorf("export: trajectory too short to draw")
	}
	_, err := io.WriteString(w, svg)
	return err
}
