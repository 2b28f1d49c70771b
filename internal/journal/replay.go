package journal

import (
	"fmt"
	"time"

	"github.com/yildizm/pagekit/internal/common"
	"github.com/yildizm/pagekit/internal/controller"
	"github.com/yildizm/pagekit/internal/scheduler"
	"github.com/yildizm/pagekit/internal/surface"
)

// Entry is one handled event in a transcript
type Entry struct {
	At         time.Duration      `json:"at"`
	Event      common.Event       `json:"event"`
	Directives []common.Directive `json:"directives"`
	Error      string             `json:"error,omitempty"`

	// Timer is set for events fired by the clock rather than the script
	Timer bool `json:"timer,omitempty"`
}

// Transcript is the full record of a replay
type Transcript struct {
	Name       string               `json:"name,omitempty"`
	SessionID  string               `json:"session_id"`
	Start      []common.Directive   `json:"start"`
	Entries    []Entry              `json:"entries"`
	Elapsed    time.Duration        `json:"elapsed"`
	Final      surface.Snapshot     `json:"final"`
	State      controller.State     `json:"state"`
	Receipts   []controller.Receipt `json:"receipts,omitempty"`
	Violations []string             `json:"violations,omitempty"`
}

// Errors counts entries whose event was rejected
func (t *Transcript) Errors() int {
	n := 0
	for _, e := range t.Entries {
		if e.Error != "" {
			n++
		}
	}
	return n
}

// Replay starts sess and feeds it the script, advancing clock for waits.
// Rejected events are recorded in the transcript and do not stop the replay.
// The session must have been built on clock and not yet started.
func Replay(sess *controller.Session, clock *scheduler.Virtual, script *Script) (*Transcript, error) {
	if sess == nil || clock == nil || script == nil {
		return nil, common.NewInvalidInputError("replay needs a session, a clock and a script", nil)
	}

	r := &replayer{
		sess:  sess,
		clock: clock,
		surf:  surface.New(),
		out: &Transcript{
			Name:      script.Name,
			SessionID: sess.ID(),
		},
	}

	r.out.Start = sess.Start()
	if err := r.surf.Apply(r.out.Start...); err != nil {
		return nil, fmt.Errorf("failed to apply initial render: %w", err)
	}
	r.check("start")

	for _, step := range script.Steps {
		if step.Event == nil {
			if err := r.wait(step.Wait); err != nil {
				return nil, err
			}
			continue
		}
		if err := r.handle(*step.Event, false); err != nil {
			return nil, err
		}
	}
	if err := r.wait(script.Settle); err != nil {
		return nil, err
	}

	r.out.Elapsed = clock.Now()
	r.out.Final = r.surf.Snapshot()
	r.out.State = sess.State()
	r.out.Receipts = sess.Receipts()
	return r.out, nil
}

type replayer struct {
	sess  *controller.Session
	clock *scheduler.Virtual
	surf  *surface.Surface
	out   *Transcript
	err   error
}

func (r *replayer) wait(d time.Duration) error {
	if d <= 0 {
		return nil
	}
	r.clock.Advance(d, func(ev common.Event) {
		if r.err == nil {
			r.err = r.handle(ev, true)
		}
	})
	return r.err
}

func (r *replayer) handle(ev common.Event, timer bool) error {
	entry := Entry{At: r.clock.Now(), Event: ev, Timer: timer}

	dirs, err := r.sess.Handle(ev)
	if err != nil {
		entry.Error = err.Error()
	}
	entry.Directives = dirs
	r.out.Entries = append(r.out.Entries, entry)

	if err := r.surf.Apply(dirs...); err != nil {
		return fmt.Errorf("failed to apply directives for %s: %w", ev, err)
	}
	r.check(ev.String())
	return nil
}

func (r *replayer) check(after string) {
	if err := r.surf.Check(); err != nil {
		r.out.Violations = append(r.out.Violations, fmt.Sprintf("after %s: %v", after, err))
	}
}
