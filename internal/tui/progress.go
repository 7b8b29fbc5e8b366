// Package tui shows live progress of a simulation run.
package tui

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lox/cardsim/internal/rummy"
	"github.com/lox/cardsim/internal/simulator"
)

const (
	padding  = 2
	maxWidth = 80
)

// RoundMsg reports a finished round.
type RoundMsg struct {
	Result rummy.RoundResult
}

// DoneMsg reports the end of the run.
type DoneMsg struct {
	Report *simulator.Report
	Err    error
}

// ProgressModel is a Bubble Tea model tracking a running simulation.
type ProgressModel struct {
	total  int
	cancel context.CancelFunc

	bar      progress.Model
	played   int
	wins     map[string]int
	declared int

	report    *simulator.Report
	err       error
	finished  bool
	cancelled bool
}

// NewProgressModel creates a model for a run of total rounds. A total of
// zero means the run is bounded by time and only the round count is shown.
// cancel is called when the user quits.
func NewProgressModel(total int, cancel context.CancelFunc) *ProgressModel {
	return &ProgressModel{
		total:  total,
		cancel: cancel,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(maxWidth-padding*2),
			progress.WithColorProfile(lipgloss.ColorProfile()),
		),
		wins: make(map[string]int),
	}
}

// Init implements tea.Model
func (m *ProgressModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-padding*2-4, maxWidth)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancelled = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case RoundMsg:
		m.played++
		if msg.Result.Termination == rummy.PhaseDeclared {
			m.declared++
		}
		if w, ok := msg.Result.Winner(); ok {
			m.wins[w.StrategyName]++
		}
		return m, nil

	case DoneMsg:
		m.finished = true
		m.report = msg.Report
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// Percent returns the share of rounds played, or zero for time bounded runs.
func (m *ProgressModel) Percent() float64 {
	if m.total <= 0 {
		return 0
	}
	return min(float64(m.played)/float64(m.total), 1)
}

// Played returns the number of rounds seen so far.
func (m *ProgressModel) Played() int {
	return m.played
}

// Cancelled reports whether the user stopped the run.
func (m *ProgressModel) Cancelled() bool {
	return m.cancelled
}

// Result returns the report and error delivered by DoneMsg.
func (m *ProgressModel) Result() (*simulator.Report, error) {
	return m.report, m.err
}

type standing struct {
	name string
	wins int
}

func (m *ProgressModel) standings() []standing {
	out := make([]standing, 0, len(m.wins))
	for name, wins := range m.wins {
		out = append(out, standing{name, wins})
	}
	slices.SortFunc(out, func(a, b standing) int {
		if c := cmp.Compare(b.wins, a.wins); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})
	return out
}

// View implements tea.Model
func (m *ProgressModel) View() string {
	pad := strings.Repeat(" ", padding)
	var b strings.Builder

	b.WriteString("\n" + pad + HeaderStyle.Render("Rummy simulation") + "\n\n")

	if m.total > 0 {
		b.WriteString(pad + m.bar.ViewAs(m.Percent()) + "\n")
		fmt.Fprintf(&b, "%s%s\n\n", pad, InfoStyle.Render(fmt.Sprintf("%d/%d rounds", m.played, m.total)))
	} else {
		fmt.Fprintf(&b, "%s%s\n\n", pad, InfoStyle.Render(fmt.Sprintf("%d rounds", m.played)))
	}

	for i, s := range m.standings() {
		line := fmt.Sprintf("%-12s %6d wins  %5.1f%%", s.name, s.wins, 100*float64(s.wins)/float64(max(m.played, 1)))
		if i == 0 {
			b.WriteString(pad + LeaderStyle.Render(line) + "\n")
		} else {
			b.WriteString(pad + StandingStyle.Render(line) + "\n")
		}
	}
	if m.played > 0 {
		fmt.Fprintf(&b, "%s%s\n", pad, InfoStyle.Render(fmt.Sprintf("%d rounds ended by a declaration", m.declared)))
	}

	switch {
	case m.err != nil && !m.cancelled:
		b.WriteString("\n" + pad + ErrorStyle.Render("Error: "+m.err.Error()) + "\n")
	case m.cancelled:
		b.WriteString("\n" + pad + WarningStyle.Render("Stopping...") + "\n")
	case !m.finished:
		b.WriteString("\n" + pad + InfoStyle.Render("Press q to stop") + "\n")
	}

	return b.String()
}
