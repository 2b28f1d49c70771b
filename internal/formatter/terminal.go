package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/pagekit/internal/journal"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = true
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(t *journal.Transcript) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, t)
	f.writeStatistics(&b, t)
	f.writeTopEvents(&b, countEvents(t.Entries))
	f.writeFinalState(&b, t)
	f.writeTimeline(&b, t.Entries)

	if len(t.Violations) > 0 {
		f.writeViolations(&b, t.Violations)
	}

	f.writeNotes(&b, t)

	return []byte(b.String()), nil
}

func (f *terminalFormatter) writeHeader(b *strings.Builder, t *journal.Transcript) {
	header := "Replay Summary"
	if t.Name != "" {
		header += ": " + t.Name
	}
	width := len([]rune(header))

	b.WriteString("╔" + strings.Repeat("═", width+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", width+2) + "╝\n\n")
}

// writeStatistics writes run totals as a go-termfmt tree
func (f *terminalFormatter) writeStatistics(b *strings.Builder, t *journal.Transcript) {
	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " Statistics\n")

	timers := timerCount(t.Entries)
	items := []termfmt.TreeItem{
		{Label: "Session", Value: t.SessionID},
		{Label: "Events", Value: fmt.Sprintf("%d", len(t.Entries)-timers)},
		{Label: "Timers fired", Value: fmt.Sprintf("%d", timers)},
		{Label: "Rejected", Value: fmt.Sprintf("%d", t.Errors())},
		{Label: "Submissions accepted", Value: fmt.Sprintf("%d", len(t.Receipts))},
		{Label: "Elapsed", Value: t.Elapsed.String(), Last: true},
	}

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

// writeTopEvents lists the five most frequent event types
func (f *terminalFormatter) writeTopEvents(b *strings.Builder, counts []eventCount) {
	opts := termfmt.DefaultOptions()
	opts.Emoji = false
	symbol := termfmt.GetEmoji("help", opts)
	b.WriteString(symbol + " Top Events\n")

	limit := 5
	if len(counts) < limit {
		limit = len(counts)
	}

	for i := 0; i < limit; i++ {
		c := counts[i]
		if i == limit-1 {
			fmt.Fprintf(b, "└─ %s (%d)\n", c.Type, c.Count)
		} else {
			fmt.Fprintf(b, "├─ %s (%d)\n", c.Type, c.Count)
		}
	}
	b.WriteString("\n")
}

func (f *terminalFormatter) writeFinalState(b *strings.Builder, t *journal.Transcript) {
	symbol := termfmt.GetEmoji("insights", f.opts)
	b.WriteString(symbol + " Final State\n")

	final := t.Final
	slide := fmt.Sprintf("%d of %d", final.Slide+1, t.State.SlideCount)
	if t.State.SlideCount == 0 {
		slide = "no slides"
	}

	items := []termfmt.TreeItem{
		{Label: "Section", Value: string(final.Visible)},
		{Label: "Menu", Value: onOff(final.MenuOpen)},
		{Label: "Slide", Value: slide},
		{
			Label: "Form",
			Value: fmt.Sprintf("submit %s", onOff(final.SubmitEnabled)),
			Children: []termfmt.TreeItem{
				{Label: "Errors", Value: orNone(final.Errors)},
				{Label: "Focused", Value: string(final.Focused), Last: true},
			},
		},
		{Label: "Transients", Value: orNone(final.Transients)},
		{Label: "Revealed", Value: orNone(final.Revealed), Last: true},
	}

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

func (f *terminalFormatter) writeTimeline(b *strings.Builder, entries []journal.Entry) {
	b.WriteString(termfmt.GetEmoji("info", f.opts) + " Timeline\n")

	for i, e := range entries {
		branch := "├─"
		if i == len(entries)-1 {
			branch = "└─"
		}
		line := fmt.Sprintf("%s %s %s %s", branch, formatAt(e.At), getEntryEmoji(e), e.Event)
		switch {
		case e.Error != "":
			line += " ! " + e.Error
		case len(e.Directives) > 0:
			line += " -> " + joinDirectives(e.Directives)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}

func (f *terminalFormatter) writeViolations(b *strings.Builder, violations []string) {
	b.WriteString(termfmt.GetEmoji("warning", f.opts) + " Violations\n")
	for _, v := range violations {
		b.WriteString("• " + v + "\n")
	}
	b.WriteString("\n")
}

func (f *terminalFormatter) writeNotes(b *strings.Builder, t *journal.Transcript) {
	symbol := termfmt.GetEmoji("recommendations", f.opts)
	b.WriteString(symbol + " Notes\n")

	for i, note := range generateNotes(t) {
		if i < 3 {
			b.WriteString("• " + note + "\n")
		}
	}
}
