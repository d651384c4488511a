package cmd

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/codetask/task"
)

//nolint:gochecknoglobals
var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	codeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Italic(true)
)

// reporter writes one styled line per diagnostic, plus a hint line when the
// diagnostic carries a suggestion.
type reporter struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
}

func newReporter(w io.Writer, verbose bool) *reporter {
	return &reporter{w: w, verbose: verbose}
}

func (r *reporter) Report(d *task.Diagnostic) {
	if d.Severity == task.SeverityMessage &&
		d.Importance == task.ImportanceLow && !r.verbose {
		return
	}

	var sb strings.Builder

	sb.WriteString(severityStyle(d.Severity).Render(d.Severity.String()))

	if d.Code != "" {
		sb.WriteString(" ")
		sb.WriteString(codeStyle.Render(d.Code))
	}

	sb.WriteString(": ")
	sb.WriteString(d.Message)

	for _, a := range d.Attrs {
		if a.Key == "suggestion" {
			sb.WriteString("\n  ")
			sb.WriteString(hintStyle.Render(fmt.Sprintf("did you mean %q?", a.Value.String())))
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.w, sb.String())
}

func severityStyle(s task.Severity) lipgloss.Style {
	switch s {
	case task.SeverityError:
		return errorStyle
	case task.SeverityWarning:
		return warningStyle
	default:
		return messageStyle
	}
}
