package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/pagekit/internal/common"
	"github.com/yildizm/pagekit/internal/journal"
)

// eventCount is how often one event type was handled
type eventCount struct {
	Type  common.EventType
	Count int
}

// countEvents tallies scripted events by type, most frequent first
func countEvents(entries []journal.Entry) []eventCount {
	counts := make(map[common.EventType]int)
	for _, e := range entries {
		if !e.Timer {
			counts[e.Event.Type]++
		}
	}

	out := make([]eventCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, eventCount{Type: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}

func timerCount(entries []journal.Entry) int {
	n := 0
	for _, e := range entries {
		if e.Timer {
			n++
		}
	}
	return n
}

// formatAt renders a virtual time offset as seconds with millisecond precision
func formatAt(d time.Duration) string {
	return fmt.Sprintf("%.3fs", d.Seconds())
}

func joinDirectives(dirs []common.Directive) string {
	parts := make([]string, 0, len(dirs))
	for _, d := range dirs {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, "; ")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func orNone[T ~string](values []T) string {
	if len(values) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, string(v))
	}
	return strings.Join(parts, ", ")
}

// getEntryEmoji returns the marker for a transcript entry using go-termfmt
func getEntryEmoji(e journal.Entry) string {
	opts := termfmt.DefaultOptions()
	switch {
	case e.Error != "":
		return termfmt.GetEmoji("error", opts)
	case e.Timer:
		return termfmt.GetEmoji("info", opts)
	default:
		return termfmt.GetEmoji("pattern", opts)
	}
}

// generateNotes suggests follow-ups for a replay
func generateNotes(t *journal.Transcript) []string {
	var notes []string

	if n := t.Errors(); n > 0 {
		notes = append(notes, fmt.Sprintf("Review %d rejected event(s) in the script", n))
	}
	if len(t.Violations) > 0 {
		notes = append(notes, fmt.Sprintf("Investigate %d rendering violation(s)", len(t.Violations)))
	}
	if len(t.Final.Errors) > 0 {
		notes = append(notes, fmt.Sprintf("Form ends with visible errors on %s", orNone(t.Final.Errors)))
	}
	if t.Final.Transition == common.PhaseEnter {
		notes = append(notes, "Last transition never settled; add a settle time to the script")
	}

	if len(notes) == 0 {
		notes = append(notes, "Replay completed cleanly")
	}
	return notes
}
