package formatter

import (
	"fmt"

	"github.com/yildizm/pagekit/internal/journal"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(transcript *journal.Transcript) ([]byte, error)
}

// New returns the formatter for a named output format
func New(format string, color bool) (Formatter, error) {
	switch format {
	case "", "text", "terminal":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	case "csv":
		return NewCSV(), nil
	default:
		return nil, fmt.Errorf("unknown format %s. Available formats: text, json, markdown, csv", format)
	}
}
