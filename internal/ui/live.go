// Package ui renders a live view of an in-flight benchmark run.
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kirbyfan64/Celero/pkg/bench"
)

var (
	liveTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	livePassStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	liveFailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	liveDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	liveBoxStyle   = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

type resultMsg bench.Result
type runDoneMsg struct{}

type liveModel struct {
	total   int
	results []bench.Result
	done    bool
}

func newLiveModel(total int) liveModel {
	return liveModel{total: total}
}

func (m liveModel) Init() tea.Cmd { return nil }

func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		m.results = append(m.results, bench.Result(msg))
		return m, nil
	case runDoneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m liveModel) View() string {
	var b strings.Builder

	b.WriteString(liveTitleStyle.Render(fmt.Sprintf("celero  %d/%d benchmarks", len(m.results), m.total)))
	b.WriteString("\n")

	for _, r := range m.results {
		label := liveDimStyle.Render("ok")
		switch r.Status {
		case bench.StatusPass:
			label = livePassStyle.Render("pass")
		case bench.StatusFail, bench.StatusFailed:
			label = liveFailStyle.Render(string(r.Status))
		}
		b.WriteString(fmt.Sprintf("%-14s %-18s %10.2f ops/sec  %s\n",
			r.Group, r.Name, r.OpsPerSec, label))
	}

	if !m.done {
		b.WriteString(liveDimStyle.Render("running... (q to quit)"))
		b.WriteString("\n")
	}
	return liveBoxStyle.Render(b.String())
}

// Live is a streaming reporter that feeds an in-terminal dashboard. Start it
// before the run, hand it to the executor, and call Wait after.
type Live struct {
	prog *tea.Program
	done chan struct{}
}

// NewLive starts the dashboard for a run of total benchmarks.
func NewLive(total int) *Live {
	l := &Live{
		prog: tea.NewProgram(newLiveModel(total)),
		done: make(chan struct{}),
	}
	go func() {
		defer close(l.done)
		_, _ = l.prog.Run()
	}()
	return l
}

// Report forwards a result to the dashboard. Safe to call from the executor's
// single-threaded loop.
func (l *Live) Report(r bench.Result) {
	l.prog.Send(resultMsg(r))
}

// Wait signals the end of the run and blocks until the dashboard exits.
func (l *Live) Wait() {
	l.prog.Send(runDoneMsg{})
	<-l.done
}
