// Package ui prints prompts and status lines for the interactive session.
// Styling and screen clearing only apply when the writer is a terminal.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	keyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

const clearSequence = "\033[H\033[2J"

// Help describes one interactive command for the banner.
type Help struct {
	Key  string
	Desc string
}

// Option configures a Printer.
type Option func(*Printer)

// WithColor enables styled output on terminals.
func WithColor(on bool) Option {
	return func(p *Printer) { p.color = on }
}

// WithClearScreen enables clearing the terminal before each note prompt.
func WithClearScreen(on bool) Option {
	return func(p *Printer) { p.clear = on }
}

// Printer writes user-facing output: prompts and notes go to out,
// problems go to errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	color  bool
	clear  bool
}

// New creates a Printer.
func New(out, errOut io.Writer, opts ...Option) *Printer {
	p := &Printer{out: out, errOut: errOut}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Banner prints the program name and the command list.
func (p *Printer) Banner(name string, cmds []Help) {
	fmt.Fprintf(p.out, "%s\n\n", p.style(p.out, bannerStyle, name))
	if len(cmds) == 0 {
		return
	}
	fmt.Fprintln(p.out, "Commands:")
	for _, c := range cmds {
		fmt.Fprintf(p.out, "%s: %s\n", p.style(p.out, keyStyle, c.Key), c.Desc)
	}
	fmt.Fprintln(p.out)
}

// Prompt prints label without a trailing newline.
func (p *Printer) Prompt(label string) {
	fmt.Fprint(p.out, label)
}

// Clear wipes the terminal when enabled and out is a terminal.
func (p *Printer) Clear() {
	if p.clear && IsTerminal(p.out) {
		fmt.Fprint(p.out, clearSequence)
	}
}

// Println prints a plain line to out.
func (p *Printer) Println(msg string) {
	fmt.Fprintln(p.out, msg)
}

// Dim prints a de-emphasised line to out.
func (p *Printer) Dim(msg string) {
	fmt.Fprintln(p.out, p.style(p.out, dimStyle, msg))
}

// Success prints a success line to out.
func (p *Printer) Success(msg string) {
	p.line(p.out, successStyle, "✓", "", msg)
}

// Error prints an error line to errOut.
func (p *Printer) Error(msg string) {
	p.line(p.errOut, errorStyle, "✗", "", msg)
}

// Warning prints a warning line to errOut.
func (p *Printer) Warning(msg string) {
	p.line(p.errOut, warningStyle, "⚠", "WARNING: ", msg)
}

func (p *Printer) line(w io.Writer, s lipgloss.Style, symbol, plainPrefix, msg string) {
	if p.color && IsTerminal(w) {
		fmt.Fprintf(w, "%s %s\n", s.Render(symbol), msg)
		return
	}
	fmt.Fprintf(w, "%s%s\n", plainPrefix, msg)
}

func (p *Printer) style(w io.Writer, s lipgloss.Style, text string) string {
	if p.color && IsTerminal(w) {
		return s.Render(text)
	}
	return text
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
