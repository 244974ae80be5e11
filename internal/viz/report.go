package viz

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/epipeak/internal/montecarlo"
	"github.com/san-kum/epipeak/internal/stats"
)

// RenderSummary lays out the scenario parameters next to the peak
// statistics of a finished run.
func RenderSummary(name string, p montecarlo.Params, s stats.Summary, elapsed time.Duration) string {
	var params strings.Builder
	params.WriteString(Title.Render("Scenario "+name) + "\n\n")
	params.WriteString(row("Days", fmt.Sprintf("%d", p.Days)) + "\n")
	params.WriteString(row("Iterations", fmt.Sprintf("%d", p.Iterations)) + "\n")
	params.WriteString(row("Population", fmt.Sprintf("%.0f", p.Population)) + "\n")
	params.WriteString(row("Initial infected", fmt.Sprintf("%.0f", p.InitialInfected)) + "\n")
	params.WriteString(row("Duration (days)", fmt.Sprintf("%g", p.InfectionDuration)) + "\n")
	params.WriteString(row("R0", fmt.Sprintf("N(%g, %g)", p.R0Mean, p.R0Std)) + "\n")
	params.WriteString(row("Control", fmt.Sprintf("%.0f%%", p.ControlEffectiveness*100)))

	var results strings.Builder
	results.WriteString(Title.Render("Peak infected") + "\n\n")
	results.WriteString(row("Mean", fmt.Sprintf("%.0f", s.Mean)) + "\n")
	results.WriteString(row("Std dev", fmt.Sprintf("%.0f", s.StdDev)) + "\n")
	results.WriteString(row("Min", fmt.Sprintf("%.0f", s.Min)) + "\n")
	results.WriteString(row("P05", fmt.Sprintf("%.0f", s.P05)) + "\n")
	results.WriteString(row("Median", fmt.Sprintf("%.0f", s.P50)) + "\n")
	results.WriteString(row("P95", fmt.Sprintf("%.0f", s.P95)) + "\n")
	results.WriteString(row("Max", fmt.Sprintf("%.0f", s.Max)) + "\n")
	results.WriteString(Subtle.Render(fmt.Sprintf("%d trials in %s", s.Count, elapsed.Round(time.Millisecond))))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		Panel.Render(params.String()),
		Panel.Render(results.String()),
	)
}
