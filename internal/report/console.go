// Package report renders the result stream for people and machines.
package report

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/kirbyfan64/Celero/pkg/bench"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// Console prints one fixed-width row per result as it arrives, so
// long-running suites show incremental progress. Fixed widths instead of a
// tabwriter because a tabwriter only aligns what it can buffer.
type Console struct {
	mu   sync.Mutex
	w    io.Writer
	once sync.Once
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Report(r bench.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.once.Do(func() {
		fmt.Fprintln(c.w, headerStyle.Render(fmt.Sprintf(
			"%-14s %-18s %-9s %8s %10s %12s %12s %14s %8s %-8s",
			"GROUP", "BENCHMARK", "ROLE", "SAMPLES", "ITERS", "MEAN", "STDDEV", "OPS/SEC", "RATIO", "STATUS")))
	})

	if r.Status == bench.StatusFailed {
		fmt.Fprintf(c.w, "%-14s %-18s %-9s %s\n",
			r.Group, r.Name, r.Role, failStyle.Render("FAILED: "+r.Error))
		return
	}

	ratio := "-"
	if r.BaselineRatio > 0 {
		ratio = fmt.Sprintf("%.3f", r.BaselineRatio)
	}

	fmt.Fprintf(c.w, "%-14s %-18s %-9s %8d %10d %12s %12s %14.2f %8s %-8s\n",
		r.Group, r.Name, r.Role, r.Samples, r.Iterations,
		formatDuration(r.Mean), formatDuration(r.StdDev),
		r.OpsPerSec, ratio, statusLabel(r.Status))
}

func statusLabel(s bench.Status) string {
	switch s {
	case bench.StatusPass:
		return passStyle.Render("PASS")
	case bench.StatusFail:
		return failStyle.Render("FAIL")
	default:
		return dimStyle.Render("OK")
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.3fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.3fms", float64(d)/float64(time.Millisecond))
	case d >= time.Microsecond:
		return fmt.Sprintf("%.3fµs", float64(d)/float64(time.Microsecond))
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
