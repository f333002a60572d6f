package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes operator-facing status lines. Each call is a single
// Write on the underlying writer, and os.Stdout is unbuffered, so lines
// appear immediately and in order with echoed child-process output.
type Printer struct {
	w io.Writer
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Writer returns the destination, for components that draw their own
// output (the spinner).
func (p *Printer) Writer() io.Writer {
	return p.w
}

func (p *Printer) line(symbol string, color lipgloss.Color, format string, args ...interface{}) {
	style := lipgloss.NewStyle().Foreground(color)
	fmt.Fprintf(p.w, "%s %s\n", style.Render(symbol), fmt.Sprintf(format, args...))
}

// Step announces a step that is starting.
func (p *Printer) Step(format string, args ...interface{}) {
	p.line(SymbolProgress, ColorSecondary, format, args...)
}

// Success reports a completed step.
func (p *Printer) Success(format string, args ...interface{}) {
	p.line(SymbolSuccess, ColorSuccess, format, args...)
}

// Fail reports a failed step.
func (p *Printer) Fail(format string, args ...interface{}) {
	p.line(SymbolFail, ColorError, format, args...)
}

// Warn reports a problem that doesn't stop the run.
func (p *Printer) Warn(format string, args ...interface{}) {
	p.line(SymbolWarning, ColorWarning, format, args...)
}

// Send announces keystrokes going out.
func (p *Printer) Send(format string, args ...interface{}) {
	p.line(SymbolSend, ColorInfo, format, args...)
}

// Detail prints s indented under the previous status line, in the muted
// color. Blank input prints nothing.
func (p *Printer) Detail(s string) {
	s = strings.TrimRight(s, "\r\n")
	if strings.TrimSpace(s) == "" {
		return
	}
	style := lipgloss.NewStyle().Foreground(ColorMuted)
	var b strings.Builder
	for _, l := range strings.Split(s, "\n") {
		b.WriteString("  ")
		b.WriteString(style.Render(strings.TrimRight(l, "\r")))
		b.WriteString("\n")
	}
	io.WriteString(p.w, b.String())
}

// Raw writes child-process output verbatim, adding a trailing newline if
// it lacks one. Blank input prints nothing.
func (p *Printer) Raw(s string) {
	if strings.TrimSpace(s) == "" {
		return
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	io.WriteString(p.w, s)
}

// Error prints a structured error as-is; it carries its own ✗ prefix.
func (p *Printer) Error(err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	io.WriteString(p.w, msg)
}
