package formatter

import (
	"encoding/json"

	"github.com/yildizm/pagekit/internal/common"
	"github.com/yildizm/pagekit/internal/controller"
	"github.com/yildizm/pagekit/internal/journal"
	"github.com/yildizm/pagekit/internal/surface"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

func (f *jsonFormatter) Format(t *journal.Transcript) ([]byte, error) {
	output := &TranscriptOutput{
		Summary:    createSummary(t),
		Start:      directiveStrings(t.Start),
		Entries:    createEntryOutputs(t.Entries),
		Final:      t.Final,
		Receipts:   t.Receipts,
		Violations: t.Violations,
	}

	return json.MarshalIndent(output, "", "  ")
}

// TranscriptOutput is the JSON document for a replay
type TranscriptOutput struct {
	Summary    *SummaryOutput       `json:"summary"`
	Start      []string             `json:"start"`
	Entries    []*EntryOutput       `json:"entries"`
	Final      surface.Snapshot     `json:"final"`
	Receipts   []controller.Receipt `json:"receipts,omitempty"`
	Violations []string             `json:"violations,omitempty"`
}

// SummaryOutput represents the summary section
type SummaryOutput struct {
	Name       string `json:"name,omitempty"`
	SessionID  string `json:"session_id"`
	Events     int    `json:"events"`
	Timers     int    `json:"timers"`
	Rejected   int    `json:"rejected"`
	Accepted   int    `json:"submissions_accepted"`
	Elapsed    string `json:"elapsed"`
	ElapsedMs  int64  `json:"elapsed_ms"`
	Consistent bool   `json:"consistent"`
}

// EntryOutput is one transcript entry with directives in text form
type EntryOutput struct {
	AtMs       int64            `json:"at_ms"`
	Event      string           `json:"event"`
	Type       common.EventType `json:"type"`
	Timer      bool             `json:"timer,omitempty"`
	Directives []string         `json:"directives"`
	Error      string           `json:"error,omitempty"`
}

func createSummary(t *journal.Transcript) *SummaryOutput {
	timers := timerCount(t.Entries)
	return &SummaryOutput{
		Name:       t.Name,
		SessionID:  t.SessionID,
		Events:     len(t.Entries) - timers,
		Timers:     timers,
		Rejected:   t.Errors(),
		Accepted:   len(t.Receipts),
		Elapsed:    t.Elapsed.String(),
		ElapsedMs:  t.Elapsed.Milliseconds(),
		Consistent: len(t.Violations) == 0,
	}
}

func createEntryOutputs(entries []journal.Entry) []*EntryOutput {
	outputs := make([]*EntryOutput, 0, len(entries))
	for _, e := range entries {
		outputs = append(outputs, &EntryOutput{
			AtMs:       e.At.Milliseconds(),
			Event:      e.Event.String(),
			Type:       e.Event.Type,
			Timer:      e.Timer,
			Directives: directiveStrings(e.Directives),
			Error:      e.Error,
		})
	}
	return outputs
}

func directiveStrings(dirs []common.Directive) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, d.String())
	}
	return out
}
