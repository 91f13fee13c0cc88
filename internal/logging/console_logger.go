// Package logging provides concrete implementations of the psqlc.Logger interface.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	verboseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// ConsoleLogger writes log messages to stderr (or an injected writer).
// Safe for concurrent use by multiple goroutines.
type ConsoleLogger struct {
	verbose bool
	color   bool
	out     io.Writer
	mu      sync.Mutex
}

// NewConsoleLogger creates a new ConsoleLogger writing plain text to stderr.
// If verbose is true, Verbose() calls will produce output.
// If verbose is false, Verbose() calls are no-ops.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return &ConsoleLogger{
		verbose: verbose,
	}
}

// WithWriter returns a copy of the logger writing to w.
func (l *ConsoleLogger) WithWriter(w io.Writer) *ConsoleLogger {
	return &ConsoleLogger{verbose: l.verbose, color: l.color, out: w}
}

// WithColor returns a copy of the logger that renders prefixes with lipgloss styles.
func (l *ConsoleLogger) WithColor(enabled bool) *ConsoleLogger {
	return &ConsoleLogger{verbose: l.verbose, color: enabled, out: l.out}
}

func (l *ConsoleLogger) writer() io.Writer {
	if l.out != nil {
		return l.out
	}
	return os.Stderr
}

func (l *ConsoleLogger) write(prefix string, style lipgloss.Style, format string, args []interface{}) {
	if prefix != "" && l.color {
		prefix = style.Render(prefix)
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.writer(), prefix+msg+"\n")
}

// Verbose logs detailed diagnostic information if verbose mode is enabled.
func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.write("[VERBOSE] ", verboseStyle, format, args)
}

// Info logs informational messages about normal operations.
func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.write("", lipgloss.Style{}, format, args)
}

// Warn logs recoverable conditions.
func (l *ConsoleLogger) Warn(format string, args ...interface{}) {
	l.write("[WARN] ", warnStyle, format, args)
}

// Error logs error messages.
func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	l.write("[ERROR] ", errorStyle, format, args)
}
