// Package interact provides styled terminal output for the podbridge CLI.
package interact

import (
	"fmt"
	"io"
	"strings"
)

// Printer provides styled terminal output.
type Printer interface {
	Success(msg string)
	Warn(msg string)
	Info(msg string)
	Errorf(format string, a ...any)
	KeyValue(key, value string)
	Muted(msg string)
	Newline()
	// Println writes an unstyled message with a trailing newline.
	Println(msg string)
}

type printer struct {
	w     io.Writer
	theme *Theme
}

// NewPrinter returns a Printer that writes styled output to w.
func NewPrinter(w io.Writer) Printer {
	return &printer{w: w, theme: NewTheme()}
}

// Discard returns a Printer that drops all output.
func Discard() Printer {
	return &printer{w: io.Discard, theme: NewTheme()}
}

func (p *printer) Success(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", p.theme.Success.Render("✓"), p.theme.Bold.Render(msg))
}

func (p *printer) Warn(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", p.theme.Warning.Render("!"), p.theme.Warning.Render(msg))
}

func (p *printer) Info(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", p.theme.Info.Render("→"), msg)
}

// Errorf prints a red error message. Only the first line is styled so
// multi-line detail (e.g. enumerated workload names) stays readable.
func (p *printer) Errorf(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	first, rest, _ := strings.Cut(msg, "\n")
	fmt.Fprintf(p.w, "%s %s\n", p.theme.Error.Render("✗"), p.theme.Error.Render(first))
	if rest != "" {
		fmt.Fprintln(p.w, rest)
	}
}

func (p *printer) KeyValue(key, value string) {
	fmt.Fprintf(p.w, "  %s %s\n", p.theme.Key.Render(key+":"), p.theme.Value.Render(value))
}

func (p *printer) Muted(msg string) {
	fmt.Fprintf(p.w, "%s\n", p.theme.Muted.Render(msg))
}

func (p *printer) Newline() {
	fmt.Fprintln(p.w)
}

func (p *printer) Println(msg string) {
	fmt.Fprintln(p.w, msg)
}
