// Package report delivers user-facing diagnostics from the bootstrap
// pipeline. Warnings stream as they occur; nothing is batched.
package report

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)

// CLIReporter writes warnings to a terminal-facing writer and mirrors them
// to the structured log.
type CLIReporter struct {
	mu     sync.Mutex
	out    io.Writer
	styled bool
}

// NewCLIReporter constructs a reporter writing to out. Styling is enabled
// when styled is true (callers pass their TTY detection result).
func NewCLIReporter(out io.Writer, styled bool) *CLIReporter {
	return &CLIReporter{out: out, styled: styled}
}

// Warn implements bootstrap.Reporter.
func (r *CLIReporter) Warn(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	label := "warning:"
	if r.styled {
		label = warnStyle.Render(label)
	}

	fmt.Fprintf(r.out, "%s %s\n", label, message)
	slog.Warn("pipeline warning", "message", message)
}
