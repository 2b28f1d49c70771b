package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/pagekit/internal/journal"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(t *journal.Transcript) ([]byte, error) {
	var b strings.Builder

	title := "Replay Report"
	if t.Name != "" {
		title += ": " + t.Name
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Session: `%s`\n\n", t.SessionID)

	f.writeTableOfContents(&b, t)
	f.writeSummaryTable(&b, t)
	f.writeFinalState(&b, t)
	f.writeTimeline(&b, t.Entries)

	if len(t.Receipts) > 0 {
		f.writeReceipts(&b, t)
	}
	if len(t.Violations) > 0 {
		f.writeViolations(&b, t.Violations)
	}

	f.writeNotes(&b, t)

	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeTableOfContents(b *strings.Builder, t *journal.Transcript) {
	b.WriteString("## Table of Contents\n")
	b.WriteString("- [Summary](#summary)\n")
	b.WriteString("- [Final State](#final-state)\n")
	b.WriteString("- [Timeline](#timeline)\n")

	if len(t.Receipts) > 0 {
		b.WriteString("- [Submissions](#submissions)\n")
	}
	if len(t.Violations) > 0 {
		b.WriteString("- [Violations](#violations)\n")
	}

	b.WriteString("- [Notes](#notes)\n\n")
}

func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, t *journal.Transcript) {
	b.WriteString("## Summary\n\n")

	timers := timerCount(t.Entries)
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| Events | %d |\n", len(t.Entries)-timers)
	fmt.Fprintf(b, "| Timers Fired | %d |\n", timers)
	fmt.Fprintf(b, "| Rejected | %d |\n", t.Errors())
	fmt.Fprintf(b, "| Submissions Accepted | %d |\n", len(t.Receipts))
	fmt.Fprintf(b, "| Elapsed | %s |\n\n", t.Elapsed)
}

func (f *markdownFormatter) writeFinalState(b *strings.Builder, t *journal.Transcript) {
	b.WriteString("## Final State\n\n")

	final := t.Final
	b.WriteString("| Element | State |\n")
	b.WriteString("|---------|-------|\n")
	fmt.Fprintf(b, "| Section | %s |\n", final.Visible)
	fmt.Fprintf(b, "| Menu | %s |\n", onOff(final.MenuOpen))
	fmt.Fprintf(b, "| Slide | %d |\n", final.Slide+1)
	fmt.Fprintf(b, "| Submit | %s |\n", onOff(final.SubmitEnabled))
	fmt.Fprintf(b, "| Field Errors | %s |\n", orNone(final.Errors))
	fmt.Fprintf(b, "| Transients | %s |\n", orNone(final.Transients))
	fmt.Fprintf(b, "| Revealed | %s |\n\n", orNone(final.Revealed))
}

func (f *markdownFormatter) writeTimeline(b *strings.Builder, entries []journal.Entry) {
	b.WriteString("## Timeline\n\n")
	b.WriteString("| At | Event | Directives |\n")
	b.WriteString("|----|-------|------------|\n")

	for _, e := range entries {
		event := "`" + e.Event.String() + "`"
		if e.Timer {
			event += " (timer)"
		}
		result := joinDirectives(e.Directives)
		if e.Error != "" {
			result = "**rejected**: " + e.Error
		}
		fmt.Fprintf(b, "| %s | %s | %s |\n", formatAt(e.At), event, escapeMarkdownCell(result))
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeReceipts(b *strings.Builder, t *journal.Transcript) {
	b.WriteString("## Submissions\n\n")
	for _, r := range t.Receipts {
		fmt.Fprintf(b, "### `%s` at %s\n\n", r.ID, formatAt(r.At))
		for _, id := range t.State.Fields {
			if v, ok := r.Values[id.Name]; ok {
				fmt.Fprintf(b, "- **%s**: %s\n", id.Name, v)
			}
		}
		b.WriteString("\n")
	}
}

func (f *markdownFormatter) writeViolations(b *strings.Builder, violations []string) {
	b.WriteString("## Violations\n\n")
	for _, v := range violations {
		fmt.Fprintf(b, "- %s\n", v)
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeNotes(b *strings.Builder, t *journal.Transcript) {
	b.WriteString("## Notes\n\n")

	for i, note := range generateNotes(t) {
		fmt.Fprintf(b, "%d. %s\n", i+1, note)
	}

	b.WriteString("\n---\n")
	b.WriteString("*Report generated by pagekit*\n")
}

func escapeMarkdownCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
