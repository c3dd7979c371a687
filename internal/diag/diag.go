// Package diag writes human-readable diagnostics about counter programming,
// clock calibration and measurement health to a caller-supplied stream.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Logger writes diagnostic lines to Writer. Verbose lines are only emitted
// when Verbose is set; warnings and errors are always written.
//
// A nil *Logger discards everything, so components can hold one
// unconditionally.
type Logger struct {
	Writer  io.Writer
	Verbose bool
	NoColor bool

	warn *color.Color
	err  *color.Color
	info *color.Color
}

// New creates a logger writing to w. A nil w writes to os.Stderr.
func New(w io.Writer, verbose, noColor bool) *Logger {
	if w == nil {
		w = os.Stderr
	}
	l := &Logger{
		Writer:  w,
		Verbose: verbose,
		NoColor: noColor,
		warn:    color.New(color.FgYellow),
		err:     color.New(color.FgRed, color.Bold),
		info:    color.New(color.FgCyan),
	}
	if noColor {
		l.warn.DisableColor()
		l.err.DisableColor()
		l.info.DisableColor()
	}
	return l
}

// Discard returns a logger that writes nowhere.
func Discard() *Logger {
	return New(io.Discard, false, true)
}

// IsVerbose reports whether verbose lines are written.
func (l *Logger) IsVerbose() bool {
	return l != nil && l.Verbose
}

// Verbosef writes a line only in verbose mode.
func (l *Logger) Verbosef(format string, args ...interface{}) {
	if !l.IsVerbose() {
		return
	}
	l.line(l.info, "", format, args...)
}

// Warnf writes a warning line.
func (l *Logger) Warnf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.line(l.warn, "warning: ", format, args...)
}

// Errorf writes an error line.
func (l *Logger) Errorf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.line(l.err, "error: ", format, args...)
}

// Printf writes an uncolored line regardless of verbosity.
func (l *Logger) Printf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	fmt.Fprintf(l.Writer, format, args...)
}

func (l *Logger) line(c *color.Color, prefix, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if n := len(msg); n == 0 || msg[n-1] != '\n' {
		msg += "\n"
	}
	if c == nil || l.NoColor {
		fmt.Fprint(l.Writer, prefix+msg)
		return
	}
	if prefix == "" {
		c.Fprint(l.Writer, msg)
		return
	}
	c.Fprint(l.Writer, prefix)
	fmt.Fprint(l.Writer, msg)
}
