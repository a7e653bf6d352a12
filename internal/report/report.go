// Package report prints the human-readable lines of a demo run.
package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/Davis1233798/proxy-demos-go/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

// Printer is safe for use from concurrent attempts.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Field is one banner row.
type Field struct {
	Name  string
	Value string
}

// Banner prints the demo title and its toggles.
func (p *Printer) Banner(title string, fields ...Field) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, titleStyle.Render("=== "+title+" ==="))
	for _, f := range fields {
		fmt.Fprintf(p.out, "%s %s\n", mutedStyle.Render(f.Name+":"), f.Value)
	}
	fmt.Fprintln(p.out)
}

// Toggle renders a bool the way the banners show it.
func Toggle(on bool) string {
	if on {
		return "ENABLED"
	}
	return "DISABLED"
}

// Attempt implements dispatch.Reporter.
func (p *Printer) Attempt(o model.Outcome, path string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case o.OK():
		fmt.Fprintf(p.out, "%s Request %d saved: %s\n", okStyle.Render("[OK]"), o.Attempt, path)
	case o.PersistErr != nil:
		fmt.Fprintf(p.out, "%s Request %d failed: %s (artifact not written: %v)\n", errorStyle.Render("[FAIL]"), o.Attempt, o.StatusCode, o.PersistErr)
	default:
		fmt.Fprintf(p.out, "%s Request %d failed: %s\n", errorStyle.Render("[FAIL]"), o.Attempt, o.StatusCode)
	}
}

// SummaryLine is the final aggregate line.
func SummaryLine(s model.Summary) string {
	return fmt.Sprintf("Success: %d/%d (%d%%)", s.Succeeded, s.Attempts, s.SuccessRatePercent())
}

func (p *Printer) Summary(s model.Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "\n%s %s\n", titleStyle.Render("Done!"), SummaryLine(s))
}

// Line prints an arbitrary status line, marked OK or FAIL.
func (p *Printer) Line(ok bool, format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	tag := okStyle.Render("[OK]")
	if !ok {
		tag = errorStyle.Render("[FAIL]")
	}
	fmt.Fprintf(p.out, "%s %s\n", tag, fmt.Sprintf(format, args...))
}
