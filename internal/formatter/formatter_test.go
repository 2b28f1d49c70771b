package formatter

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/yildizm/pagekit/internal/controller"
	"github.com/yildizm/pagekit/internal/journal"
	"github.com/yildizm/pagekit/internal/scheduler"
)

func replayTranscript(t *testing.T) *journal.Transcript {
	t.Helper()
	script, err := journal.ParseScriptYAML([]byte(`
name: demo
settle: 1s
events:
  - do: navigate about
  - do: navigate pricing
  - do: menu
  - do: blur email nope
`))
	if err != nil {
		t.Fatalf("ParseScriptYAML failed: %v", err)
	}

	clock := scheduler.NewVirtual()
	sess, err := controller.New(controller.DefaultOptions(), clock, nil)
	if err != nil {
		t.Fatalf("controller.New failed: %v", err)
	}
	tr, err := journal.Replay(sess, clock, script)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	return tr
}

func TestNewFormatter(t *testing.T) {
	for _, name := range []string{"text", "json", "markdown", "csv"} {
		if _, err := New(name, false); err != nil {
			t.Errorf("Expected formatter for %s, got %v", name, err)
		}
	}
	if _, err := New("xml", false); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestTerminalFormat(t *testing.T) {
	out, err := NewTerminal(false).Format(replayTranscript(t))
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	text := string(out)
	for _, want := range []string{
		"Replay Summary: demo",
		"Statistics",
		"Final State",
		"navigate pricing ! ",
		"set_visible about",
		"Review 1 rejected event(s)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output:\n%s", want, text)
		}
	}
}

func TestJSONFormat(t *testing.T) {
	out, err := NewJSON().Format(replayTranscript(t))
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var doc TranscriptOutput
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if doc.Summary.Rejected != 1 {
		t.Errorf("Expected 1 rejected, got %d", doc.Summary.Rejected)
	}
	if doc.Summary.Events != 4 {
		t.Errorf("Expected 4 events, got %d", doc.Summary.Events)
	}
	if !doc.Summary.Consistent {
		t.Error("Expected consistent replay")
	}
	if doc.Final.Visible != "about" || !doc.Final.MenuOpen {
		t.Errorf("Expected about with open menu, got %+v", doc.Final)
	}
}

func TestMarkdownFormat(t *testing.T) {
	out, err := NewMarkdown().Format(replayTranscript(t))
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	text := string(out)
	for _, want := range []string{"# Replay Report: demo", "## Timeline", "**rejected**", "| Menu | on |"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output:\n%s", want, text)
		}
	}
}

func TestCSVFormat(t *testing.T) {
	tr := replayTranscript(t)
	out, err := NewCSV().Format(tr)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("Invalid CSV: %v", err)
	}
	if len(records) != len(tr.Entries)+1 {
		t.Errorf("Expected %d records, got %d", len(tr.Entries)+1, len(records))
	}
	if records[0][0] != "At (ms)" {
		t.Errorf("Expected header row, got %v", records[0])
	}
}
