// Package output provides formatted output utilities for the CLI.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ColorMode selects when ANSI colors are emitted.
type ColorMode string

const (
	ColorAuto ColorMode = "auto"
	ColorOn   ColorMode = "on"
	ColorOff  ColorMode = "off"
)

// ParseColorMode parses a -color flag value.
func ParseColorMode(s string) (ColorMode, bool) {
	switch m := ColorMode(strings.ToLower(s)); m {
	case ColorAuto, ColorOn, ColorOff:
		return m, true
	}
	return "", false
}

// Writer handles CLI output formatting.
type Writer struct {
	out     io.Writer
	err     io.Writer
	verbose bool

	green  *color.Color
	red    *color.Color
	yellow *color.Color
	cyan   *color.Color
	bold   *color.Color
	dim    *color.Color
	title  *color.Color
}

// New creates a new Writer on stdout and stderr, coloring only when stdout
// is a terminal.
func New() *Writer {
	return NewWithWriters(os.Stdout, os.Stderr, isTerminal(os.Stdout))
}

// NewWithWriters creates a Writer with custom io.Writers (for testing).
func NewWithWriters(out, err io.Writer, colored bool) *Writer {
	w := &Writer{out: out, err: err}
	w.SetColor(colored)
	return w
}

// SetColor enables or disables ANSI colors.
func (w *Writer) SetColor(enabled bool) {
	w.green = newColor(enabled, color.FgGreen)
	w.red = newColor(enabled, color.FgRed)
	w.yellow = newColor(enabled, color.FgYellow)
	w.cyan = newColor(enabled, color.FgCyan)
	w.bold = newColor(enabled, color.Bold)
	w.dim = newColor(enabled, color.Faint)
	w.title = newColor(enabled, color.Bold, color.FgCyan)
}

// ApplyColorMode resolves mode against the current stdout.
func (w *Writer) ApplyColorMode(mode ColorMode) {
	switch mode {
	case ColorOn:
		w.SetColor(true)
	case ColorOff:
		w.SetColor(false)
	default:
		w.SetColor(isTerminal(w.out))
	}
}

// newColor builds a color whose state ignores the package-level NoColor
// detection, so a Writer decides for itself.
func newColor(enabled bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// SetVerbose enables or disables verbose mode.
func (w *Writer) SetVerbose(verbose bool) {
	w.verbose = verbose
}

// Println writes a line to stdout.
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Write copies raw bytes to stdout without formatting.
func (w *Writer) Write(p []byte) (int, error) {
	return w.out.Write(p)
}

// Errorln writes a line to stderr.
func (w *Writer) Errorln(format string, args ...interface{}) {
	fmt.Fprintf(w.err, format+"\n", args...)
}

// Debug prints a message only in verbose mode.
func (w *Writer) Debug(format string, args ...interface{}) {
	if !w.verbose {
		return
	}
	w.Println("%s", w.dim.Sprintf(format, args...))
}

// Success prints a success message.
func (w *Writer) Success(format string, args ...interface{}) {
	w.Println("%s", w.green.Sprintf(format, args...))
}

// Failure prints a failure message to stdout, where it interleaves with the
// per-test report lines.
func (w *Writer) Failure(format string, args ...interface{}) {
	w.Println("%s", w.red.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(format string, args ...interface{}) {
	w.Errorln("%s %s", w.yellow.Sprint("warning:"), fmt.Sprintf(format, args...))
}

// ErrorPrefix prints an error message with dextest prefix to stderr.
func (w *Writer) ErrorPrefix(format string, args ...interface{}) {
	w.Errorln("%s %s", w.red.Sprint("dextest:"), fmt.Sprintf(format, args...))
}

// Summary prints a summary line framed by blank lines.
func (w *Writer) Summary(failed bool, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	w.Println("")
	if failed {
		w.Println("%s", w.red.Sprint(msg))
	} else {
		w.Println("%s", w.bold.Sprint(msg))
	}
	w.Println("")
}

// Table prints a simple table.
func (w *Writer) Table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var headerParts []string
	for i, h := range headers {
		headerParts = append(headerParts, fmt.Sprintf("%-*s", widths[i], h))
	}
	w.Println("%s", strings.TrimRight(strings.Join(headerParts, "  "), " "))

	var sepParts []string
	for _, width := range widths {
		sepParts = append(sepParts, strings.Repeat("-", width))
	}
	w.Println("%s", strings.Join(sepParts, "  "))

	for _, row := range rows {
		var rowParts []string
		for i, cell := range row {
			if i < len(widths) {
				rowParts = append(rowParts, fmt.Sprintf("%-*s", widths[i], cell))
			}
		}
		w.Println("%s", strings.TrimRight(strings.Join(rowParts, "  "), " "))
	}
}

// HelpTitle formats the main help title line.
func (w *Writer) HelpTitle(title string) {
	w.Println("%s", w.title.Sprint(title))
}

// HelpSection formats a section header (e.g., "Options:").
func (w *Writer) HelpSection(title string) {
	w.Println("")
	w.Println("%s", w.yellow.Sprint(title))
}

// HelpFlag formats a flag with its description.
func (w *Writer) HelpFlag(name, description string, width int) {
	padding := width - len(name)
	if padding < 0 {
		padding = 0
	}
	w.Println("  %s%s  %s", w.cyan.Sprint(name), strings.Repeat(" ", padding), w.dim.Sprint(description))
}

// HelpUsage formats usage lines.
func (w *Writer) HelpUsage(usage string) {
	w.Println("  %s", usage)
}

// HelpExample formats an example command with description.
func (w *Writer) HelpExample(command, description string) {
	w.Println("  %s", w.cyan.Sprint(command))
	if description != "" {
		w.Println("      %s", w.dim.Sprint(description))
	}
}

// isTerminal returns true if the writer is a terminal.
func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
