// Package output writes the user-facing diagnostic lines of alps. Each line
// carries a short prefix naming what happened:
//
//	[+] added or installing     [-] removed
//	[~] synced                  [?] found
//	[%] editing                 [!] warning
//	[!!!] fatal
//
// Successes go to stdout and problems to stderr, so piping a query keeps
// only its results.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Kind classifies a diagnostic line.
type Kind int

const (
	Plain Kind = iota
	Added
	Removed
	Installing
	Synced
	Found
	Editing
	Warning
	Fatal
	Header
)

var kindNames = map[Kind]string{
	Plain:      "Plain",
	Added:      "Added",
	Removed:    "Removed",
	Installing: "Installing",
	Synced:     "Synced",
	Found:      "Found",
	Editing:    "Editing",
	Warning:    "Warning",
	Fatal:      "Fatal",
	Header:     "Header",
}

func (k Kind) String() string {
	return kindNames[k]
}

// Prefix returns the marker printed before the message.
func (k Kind) Prefix() string {
	switch k {
	case Added, Installing:
		return "[+]"
	case Removed:
		return "[-]"
	case Synced:
		return "[~]"
	case Found:
		return "[?]"
	case Editing:
		return "[%]"
	case Warning:
		return "[!]"
	case Fatal:
		return "[!!!]"
	case Header:
		return "====="
	default:
		return ""
	}
}

// IsProblem reports whether lines of this kind go to stderr.
func (k Kind) IsProblem() bool {
	return k == Warning || k == Fatal
}

// Reporter receives diagnostics from the engines.
type Reporter interface {
	Report(kind Kind, format string, args ...interface{})
}

// Console writes styled diagnostics to a pair of writers.
type Console struct {
	out    io.Writer
	errOut io.Writer
	styles map[string]lipgloss.Style
}

// NewConsole returns a Console. With color false every style renders as
// plain text.
func NewConsole(out, errOut io.Writer, color bool) *Console {
	r := lipgloss.NewRenderer(out)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	styles, err := ParseStyles(defaultStyles, r)
	if err != nil {
		// The embedded file is part of the binary; a parse failure is a
		// build defect.
		panic(err)
	}
	return &Console{out: out, errOut: errOut, styles: styles}
}

// Report formats and writes one line. String arguments are highlighted
// with the kind's style.
func (c *Console) Report(kind Kind, format string, args ...interface{}) {
	style, styled := c.styles[kind.String()]
	if styled {
		highlighted := make([]interface{}, len(args))
		for i, arg := range args {
			if s, ok := arg.(string); ok {
				highlighted[i] = style.Render(s)
			} else {
				highlighted[i] = arg
			}
		}
		args = highlighted
	}
	msg := fmt.Sprintf(format, args...)

	var line string
	switch {
	case kind == Header:
		line = fmt.Sprintf("%s %s %s", style.Render(kind.Prefix()), msg, style.Render(kind.Prefix()))
	case kind.Prefix() != "":
		line = style.Render(kind.Prefix()) + " " + msg
	default:
		line = msg
	}

	w := c.out
	if kind.IsProblem() {
		w = c.errOut
	}
	fmt.Fprintln(w, line)
}

// Line is one captured diagnostic.
type Line struct {
	Kind Kind
	Text string
}

// Memory captures diagnostics unstyled, for tests and for callers that
// post-process output.
type Memory struct {
	Lines []Line
}

// NewMemory returns an empty Memory reporter.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Report(kind Kind, format string, args ...interface{}) {
	m.Lines = append(m.Lines, Line{Kind: kind, Text: fmt.Sprintf(format, args...)})
}

// Texts returns the messages of the given kind in order.
func (m *Memory) Texts(kind Kind) []string {
	var out []string
	for _, l := range m.Lines {
		if l.Kind == kind {
			out = append(out, l.Text)
		}
	}
	return out
}

// Contains reports whether any line of kind contains substr.
func (m *Memory) Contains(kind Kind, substr string) bool {
	for _, l := range m.Lines {
		if l.Kind == kind && strings.Contains(l.Text, substr) {
			return true
		}
	}
	return false
}

// Count returns the number of lines of kind.
func (m *Memory) Count(kind Kind) int {
	return len(m.Texts(kind))
}
