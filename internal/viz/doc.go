// Package viz renders Monte Carlo results in the terminal.
//
//   - [PlotCurve] and [PlotHistogram]: asciigraph charts of one trajectory
//     and of the peak distribution
//   - [RenderSummary]: lipgloss panel with mean, deviation and quantiles
//   - [LiveModel]: Bubble Tea program that runs trials in batches and shows
//     the running estimate
//
// # Key Bindings
//
//	Space - Pause/Resume
//	Q     - Quit
package viz
