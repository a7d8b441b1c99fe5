// Package output renders command results as human-readable text or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Format selects how command results are rendered.
type Format string

const (
	// FormatText renders for humans at a terminal.
	FormatText Format = "text"
	// FormatJSON renders one indented JSON document per result.
	FormatJSON Format = "json"
	// FormatAuto defers to TTY detection at startup.
	FormatAuto Format = "auto"
)

// Formatter writes command results in one fixed format. Commands decide
// what to print; the formatter decides how it lands on the wire.
type Formatter struct {
	format Format
	writer io.Writer
}

// NewFormatter creates a formatter. A nil writer falls back to stdout.
func NewFormatter(format Format, w io.Writer) *Formatter {
	if w == nil {
		w = os.Stdout
	}
	return &Formatter{format: format, writer: w}
}

// Format returns the active output format.
func (f *Formatter) Format() Format { return f.format }

// Writer returns the destination writer.
func (f *Formatter) Writer() io.Writer { return f.writer }

// IsJSON reports whether results render as JSON. Commands use this to pick
// between a structured payload and line-oriented text.
func (f *Formatter) IsJSON() bool { return f.format == FormatJSON }

// Print renders one result value. In JSON mode the value is encoded as an
// indented document; in text mode tables render column-aligned, strings
// and Stringers print as lines, and anything else goes through %v.
func (f *Formatter) Print(v any) error {
	if f.IsJSON() {
		enc := json.NewEncoder(f.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	switch val := v.(type) {
	case *Table:
		return val.Render(f.writer)
	case string:
		_, err := fmt.Fprintln(f.writer, val)
		return err
	case error:
		_, err := fmt.Fprintln(f.writer, val.Error())
		return err
	case fmt.Stringer:
		_, err := fmt.Fprintln(f.writer, val.String())
		return err
	default:
		_, err := fmt.Fprintf(f.writer, "%v\n", val)
		return err
	}
}

// Printf writes formatted text output.
func (f *Formatter) Printf(format string, args ...any) error {
	_, err := fmt.Fprintf(f.writer, format, args...)
	return err
}

// Println writes a line of text output.
func (f *Formatter) Println(args ...any) error {
	_, err := fmt.Fprintln(f.writer, args...)
	return err
}

// DetectFormat resolves FormatAuto: text when the destination is a
// terminal, JSON otherwise so piped output stays machine-readable. An
// explicit choice always wins.
func DetectFormat(w io.Writer, explicit Format) Format {
	if explicit != FormatAuto {
		return explicit
	}
	if file, ok := w.(*os.File); ok {
		if term.IsTerminal(int(file.Fd())) { //nolint:gosec // G115: Fd() returns uintptr, safe conversion for term.IsTerminal
			return FormatText
		}
	}
	return FormatJSON
}

// ParseFormat parses a format name; anything unrecognized means auto.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(FormatJSON):
		return FormatJSON
	case string(FormatText):
		return FormatText
	default:
		return FormatAuto
	}
}
