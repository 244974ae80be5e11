package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/epipeak/internal/montecarlo"
	"github.com/san-kum/epipeak/internal/sampler"
	"github.com/san-kum/epipeak/internal/stats"
)

const (
	defaultBatch    = 25
	historyCapacity = 600
	barWidth        = 40
)

type TickMsg time.Time

// LiveModel runs the trials of a driver a batch per tick and keeps a
// streaming mean and deviation of the peaks.
type LiveModel struct {
	ctx      context.Context
	driver   *montecarlo.Driver
	sampler  sampler.Sampler
	name     string
	batch    int
	total    int
	acc      stats.Accumulator
	means    []float64
	lastPeak float64
	running  bool
	err      error
}

func NewLiveModel(ctx context.Context, name string, d *montecarlo.Driver, s sampler.Sampler, batch int) LiveModel {
	if batch <= 0 {
		batch = defaultBatch
	}
	return LiveModel{
		ctx:     ctx,
		driver:  d,
		sampler: s,
		name:    name,
		batch:   batch,
		total:   d.Params().Iterations,
		means:   make([]float64, 0, historyCapacity),
		running: true,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Init() tea.Cmd {
	return tick()
}

func (m LiveModel) Done() bool {
	return m.err != nil || m.acc.Count() >= m.total
}

func (m LiveModel) Count() int { return m.acc.Count() }

func (m LiveModel) Err() error { return m.err }

// Estimate returns the running mean and population deviation.
func (m LiveModel) Estimate() (mean, std float64, err error) {
	if mean, err = m.acc.Mean(); err != nil {
		return 0, 0, err
	}
	std, err = m.acc.StdDev()
	return mean, std, err
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		}
	case TickMsg:
		if m.running && !m.Done() {
			m.step()
		}
		if m.Done() {
			return m, nil
		}
		return m, tick()
	}
	return m, nil
}

func (m *LiveModel) step() {
	n := min(m.batch, m.total-m.acc.Count())
	for i := 0; i < n; i++ {
		r0, err := m.driver.Draw(m.sampler)
		if err != nil {
			m.err = err
			return
		}
		peak, err := m.driver.Trial(m.ctx, r0)
		if err != nil {
			m.err = &montecarlo.TrialError{Trial: m.acc.Count(), Wrapped: err}
			return
		}
		m.acc.Add(peak)
		m.lastPeak = peak
	}

	mean, err := m.acc.Mean()
	if err != nil {
		return
	}
	if len(m.means) == historyCapacity {
		m.means = m.means[1:]
	}
	m.means = append(m.means, mean)
}

func (m LiveModel) View() string {
	var s strings.Builder

	status := StatusRunning.Render("RUNNING")
	switch {
	case m.err != nil:
		status = ErrorText.Render("FAILED")
	case m.Done():
		status = StatusDone.Render("DONE")
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}
	s.WriteString(Title.Render("epipeak live: "+m.name) + "  " + status + "\n\n")

	done := m.acc.Count()
	pct := 0.0
	if m.total > 0 {
		pct = float64(done) / float64(m.total)
	}
	s.WriteString(ProgressBar(pct, barWidth) + fmt.Sprintf(" %d/%d\n\n", done, m.total))

	if mean, std, err := m.Estimate(); err == nil {
		s.WriteString(row("Mean peak", fmt.Sprintf("%.0f", mean)) + "\n")
		s.WriteString(row("Std dev", fmt.Sprintf("%.0f", std)) + "\n")
		s.WriteString(row("Min / Max", fmt.Sprintf("%.0f / %.0f", m.acc.Min(), m.acc.Max())) + "\n")
		s.WriteString(row("Last peak", fmt.Sprintf("%.0f", m.lastPeak)) + "\n")
		s.WriteString(row("Trend", Sparkline(m.means, 30)) + "\n\n")
	}

	if len(m.means) > 1 {
		s.WriteString(asciigraph.Plot(m.means,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Precision(0),
			asciigraph.Caption("running mean"),
		) + "\n\n")
	}

	if m.err != nil {
		s.WriteString(ErrorText.Render(m.err.Error()) + "\n\n")
	}

	s.WriteString(KeyHint.Render("space pause  q quit"))
	return Panel.Render(s.String())
}
