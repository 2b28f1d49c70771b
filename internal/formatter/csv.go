package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/yildizm/pagekit/internal/journal"
)

// csvFormatter formats transcript entries as CSV
type csvFormatter struct{}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{}
}

func (f *csvFormatter) Format(t *journal.Transcript) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	headers := []string{
		"At (ms)",
		"Source",
		"Event Type",
		"Event",
		"Directives",
		"Error",
	}

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, e := range t.Entries {
		source := "script"
		if e.Timer {
			source = "timer"
		}

		record := []string{
			fmt.Sprintf("%d", e.At.Milliseconds()),
			source,
			string(e.Event.Type),
			escapeCSVString(e.Event.String()),
			joinDirectives(e.Directives),
			escapeCSVString(e.Error),
		}

		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return b.Bytes(), nil
}

// escapeCSVString flattens newlines and truncates long values
func escapeCSVString(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")

	if r := []rune(s); len(r) > 100 {
		s = string(r[:97]) + "..."
	}

	return s
}
