package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/yildizm/pagekit/internal/common"
)

// VerboseChecker reports whether debug and info lines should be written
type VerboseChecker interface {
	IsVerbose() bool
}

// Logger writes component-tagged lines. Debug and Info are gated on the
// verbose checker; Warn and Error are always written.
type Logger struct {
	component      string
	verboseChecker VerboseChecker
	out            *output
	fields         []Field
}

// output is shared between a logger and the loggers derived from it
type output struct {
	mu     sync.Mutex
	writer io.Writer
}

// Field is a key-value pair appended to a log line
type Field struct {
	Key   string
	Value interface{}
}

// New creates a logger writing to stderr
func New(component string, verboseChecker VerboseChecker) *Logger {
	return &Logger{
		component:      component,
		verboseChecker: verboseChecker,
		out:            &output{writer: os.Stderr},
	}
}

// NewWithCallback creates a logger whose verbosity is read from verboseCheck on every call
func NewWithCallback(component string, verboseCheck func() bool) *Logger {
	return New(component, &callbackChecker{callback: verboseCheck})
}

// NewWithWriter creates a logger writing to w
func NewWithWriter(component string, w io.Writer, verboseCheck func() bool) *Logger {
	l := NewWithCallback(component, verboseCheck)
	l.out = &output{writer: w}
	return l
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return NewWithWriter("", io.Discard, nil)
}

// WithComponent derives a logger for another component sharing the same output
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		component:      component,
		verboseChecker: l.verboseChecker,
		out:            l.out,
		fields:         l.fields,
	}
}

// With derives a logger that appends fields to every line
func (l *Logger) With(fields ...Field) *Logger {
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)

	return &Logger{
		component:      l.component,
		verboseChecker: l.verboseChecker,
		out:            l.out,
		fields:         merged,
	}
}

type callbackChecker struct {
	callback func() bool
}

func (c *callbackChecker) IsVerbose() bool {
	if c.callback == nil {
		return false
	}
	return c.callback()
}

func (l *Logger) verbose() bool {
	return l.verboseChecker != nil && l.verboseChecker.IsVerbose()
}

// Debug logs debug messages (only when verbose)
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.verbose() {
		l.logWithFields("DEBUG", msg, nil, args...)
	}
}

// Info logs informational messages (only when verbose)
func (l *Logger) Info(msg string, args ...interface{}) {
	if l.verbose() {
		l.logWithFields("INFO", msg, nil, args...)
	}
}

// Warn logs warnings (always shown)
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.logWithFields("WARN", msg, nil, args...)
}

// Error logs errors (always shown)
func (l *Logger) Error(msg string, args ...interface{}) {
	l.logWithFields("ERROR", msg, nil, args...)
}

// DebugWithFields logs a debug message with structured fields
func (l *Logger) DebugWithFields(msg string, fields []Field, args ...interface{}) {
	if l.verbose() {
		l.logWithFields("DEBUG", msg, fields, args...)
	}
}

// InfoWithFields logs an info message with structured fields
func (l *Logger) InfoWithFields(msg string, fields []Field, args ...interface{}) {
	if l.verbose() {
		l.logWithFields("INFO", msg, fields, args...)
	}
}

// WarnWithFields logs a warning with structured fields
func (l *Logger) WarnWithFields(msg string, fields []Field, args ...interface{}) {
	l.logWithFields("WARN", msg, fields, args...)
}

func (l *Logger) logWithFields(level, msg string, fields []Field, args ...interface{}) {
	timestamp := time.Now().Format("15:04:05.000")
	component := l.component
	if component == "" {
		component = "main"
	}

	formattedMsg := msg
	if len(args) > 0 {
		formattedMsg = fmt.Sprintf(msg, args...)
	}

	all := l.fields
	if len(fields) > 0 {
		all = append(append([]Field{}, l.fields...), fields...)
	}

	var fieldsStr string
	if len(all) > 0 {
		parts := make([]string, 0, len(all))
		for _, field := range all {
			parts = append(parts, fmt.Sprintf("%s=%v", field.Key, field.Value))
		}
		fieldsStr = fmt.Sprintf(" [%s]", strings.Join(parts, " "))
	}

	line := fmt.Sprintf("[%s] %s [%s] %s%s\n", timestamp, level, component, formattedMsg, fieldsStr)

	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	// nothing sensible to do if the log sink itself fails
	_, _ = io.WriteString(l.out.writer, line)
}

// Helper functions for common field types

func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

func Duration(d time.Duration) Field {
	return Field{Key: "duration", Value: d}
}

func Error(err error) Field {
	return Field{Key: "error", Value: err}
}

func Session(id string) Field {
	return Field{Key: "session", Value: id}
}

func Event(ev common.Event) Field {
	return Field{Key: "event", Value: ev.String()}
}

func Section(s common.Section) Field {
	return Field{Key: "section", Value: s}
}

func FieldName(id common.FieldID) Field {
	return Field{Key: "field", Value: id}
}
