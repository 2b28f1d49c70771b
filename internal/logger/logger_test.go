package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/yildizm/pagekit/internal/common"
)

func TestVerboseGating(t *testing.T) {
	var buf bytes.Buffer
	verbose := false
	l := NewWithWriter("router", &buf, func() bool { return verbose })

	l.Debug("hidden %d", 1)
	l.Info("hidden too")
	if buf.Len() != 0 {
		t.Fatalf("Expected no output when not verbose, got %q", buf.String())
	}

	l.Warn("shown")
	if !strings.Contains(buf.String(), "WARN [router] shown") {
		t.Errorf("Expected warn line, got %q", buf.String())
	}

	verbose = true
	buf.Reset()
	l.Debug("now %s", "visible")
	if !strings.Contains(buf.String(), "DEBUG [router] now visible") {
		t.Errorf("Expected debug line, got %q", buf.String())
	}
}

func TestFieldsAreAppended(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("session", &buf, func() bool { return true }).
		With(Session("abc"))

	l.InfoWithFields("handled", []Field{Event(common.Navigate(common.SectionAbout)), Error(errors.New("boom"))})

	line := buf.String()
	for _, want := range []string{"session=abc", "event=navigate about", "error=boom"} {
		if !strings.Contains(line, want) {
			t.Errorf("Expected %q in %q", want, line)
		}
	}
}

func TestWithComponentSharesOutput(t *testing.T) {
	var buf bytes.Buffer
	root := NewWithWriter("", &buf, nil)
	root.WithComponent("form").Error("bad %s", "input")

	if !strings.Contains(buf.String(), "ERROR [form] bad input") {
		t.Errorf("Expected derived logger to share output, got %q", buf.String())
	}

	buf.Reset()
	root.Error("plain")
	if !strings.Contains(buf.String(), "[main] plain") {
		t.Errorf("Expected default component main, got %q", buf.String())
	}
}

func TestNopDiscards(t *testing.T) {
	// must not panic or write anywhere visible
	Nop().Error("ignored")
}
