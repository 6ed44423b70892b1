package ux

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Printer writes one-line status messages.
type Printer struct {
	w       io.Writer
	noColor bool
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer, noColor bool) *Printer {
	return &Printer{w: w, noColor: noColor}
}

func (p *Printer) line(style lipgloss.Style, symbol, msg string) {
	if p.noColor {
		fmt.Fprintf(p.w, "%s %s\n", symbol, msg)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", style.Render(symbol), msg)
}

// Success prints a success line.
func (p *Printer) Success(format string, args ...any) {
	p.line(successStyle, "✓", fmt.Sprintf(format, args...))
}

// Warn prints a warning line.
func (p *Printer) Warn(format string, args ...any) {
	p.line(warnStyle, "!", fmt.Sprintf(format, args...))
}

// Error prints an error line.
func (p *Printer) Error(format string, args ...any) {
	p.line(errorStyle, "✗", fmt.Sprintf(format, args...))
}

// Info prints an informational line.
func (p *Printer) Info(format string, args ...any) {
	p.line(infoStyle, "•", fmt.Sprintf(format, args...))
}

// Muted prints a line in a dimmed color.
func (p *Printer) Muted(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.noColor {
		fmt.Fprintln(p.w, msg)
		return
	}
	fmt.Fprintln(p.w, mutedStyle.Render(msg))
}
