package journal

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	logparser "github.com/yildizm/go-logparser"

	"github.com/yildizm/pagekit/internal/common"
)

// Journal formats accepted by ParseJournal
const (
	FormatAuto   = "auto"
	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
	FormatText   = "text"
)

// markerPrefix starts journal lines that carry no event. The first marker
// sets the replay origin.
const markerPrefix = "#"

// ParseJournal turns recorded log lines into a script. Each message is an
// event in its text form; gaps between timestamps become waits.
func ParseJournal(content string, format string) (*Script, error) {
	p, err := newParser(format)
	if err != nil {
		return nil, err
	}

	entries, err := p.ParseString(content)
	if err != nil {
		return nil, common.NewInvalidInputError("failed to parse journal", err)
	}
	if len(entries) == 0 {
		return nil, common.NewInvalidInputError("journal has no entries", nil)
	}

	// stable sort keeps same-instant events in file order
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})

	script := &Script{}
	var origin time.Time
	for i, entry := range entries {
		msg := strings.TrimSpace(entry.Message)
		if origin.IsZero() {
			origin = entry.Timestamp
		}

		if strings.HasPrefix(msg, markerPrefix) {
			if script.Name == "" {
				script.Name = strings.TrimSpace(strings.TrimPrefix(msg, markerPrefix))
			}
			continue
		}

		ev, err := common.ParseEvent(entry.Message)
		if err != nil {
			return nil, fmt.Errorf("journal entry %d: %w", i+1, err)
		}
		if ev.Type == common.EventTimer {
			// timers are regenerated by the replay clock
			continue
		}

		if gap := entry.Timestamp.Sub(origin); gap > 0 {
			script.Steps = append(script.Steps, Step{Wait: gap})
		}
		origin = entry.Timestamp
		script.Steps = append(script.Steps, Step{Event: &ev})
	}

	return script, nil
}

func newParser(format string) (logparser.Parser, error) {
	switch format {
	case "", FormatAuto:
		return logparser.New(), nil
	case FormatJSON:
		return logparser.NewWithFormat(logparser.FormatJSON), nil
	case FormatLogfmt:
		return logparser.NewWithFormat(logparser.FormatLogfmt), nil
	case FormatText:
		return logparser.NewWithFormat(logparser.FormatText), nil
	default:
		return nil, common.NewInvalidInputError(
			fmt.Sprintf("unknown journal format %s. Available formats: json, logfmt, text", format), nil)
	}
}

// Recorder writes host events as JSON lines that ParseJournal reads back
type Recorder struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

type record struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// NewRecorder writes a marker line naming the session and returns a recorder.
// A nil now uses the wall clock.
func NewRecorder(w io.Writer, sessionID string, now func() time.Time) (*Recorder, error) {
	if now == nil {
		now = time.Now
	}
	r := &Recorder{w: w, now: now}
	if err := r.write("info", markerPrefix+" session "+sessionID); err != nil {
		return nil, err
	}
	return r, nil
}

// Record appends one event. Timer events are skipped.
func (r *Recorder) Record(ev common.Event) error {
	if ev.Type == common.EventTimer {
		return nil
	}
	return r.write("info", ev.String())
}

func (r *Recorder) write(level, msg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	line, err := json.Marshal(record{
		Timestamp: r.now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Message:   msg,
	})
	if err != nil {
		return fmt.Errorf("failed to encode journal line: %w", err)
	}
	if _, err := r.w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write journal line: %w", err)
	}
	return nil
}
