package controller

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/yildizm/pagekit/internal/common"
	"github.com/yildizm/pagekit/internal/scheduler"
)

func newTestSession(t *testing.T, mutate func(*Options)) (*Session, *scheduler.Virtual) {
	t.Helper()
	opts := DefaultOptions()
	opts.RevealTargets = []string{"card-1", "card-2"}
	opts.LazyImages = map[string]string{"hero": "img/hero.jpg"}
	if mutate != nil {
		mutate(&opts)
	}

	clock := scheduler.NewVirtual()
	s, err := New(opts, clock, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	s.Start()
	return s, clock
}

// advance moves the clock and feeds fired timers back into the session
func advance(t *testing.T, s *Session, clock *scheduler.Virtual, d time.Duration) []common.Directive {
	t.Helper()
	var out []common.Directive
	clock.Advance(d, func(ev common.Event) {
		dirs, err := s.Handle(ev)
		if err != nil {
			t.Fatalf("timer %s failed: %v", ev.Timer, err)
		}
		out = append(out, dirs...)
	})
	return out
}

func mustHandle(t *testing.T, s *Session, ev common.Event) []common.Directive {
	t.Helper()
	dirs, err := s.Handle(ev)
	if err != nil {
		t.Fatalf("Handle(%s) failed: %v", ev, err)
	}
	return dirs
}

func fillValid(t *testing.T, s *Session) {
	t.Helper()
	mustHandle(t, s, common.Change(common.FieldName, "Ann"))
	mustHandle(t, s, common.Change(common.FieldEmail, "a@b.co"))
	mustHandle(t, s, common.Change(common.FieldSubject, "Hi!"))
	mustHandle(t, s, common.Change(common.FieldMessage, "Hello there"))
}

func TestStartRendersDefaultState(t *testing.T) {
	opts := DefaultOptions()
	clock := scheduler.NewVirtual()
	s, err := New(opts, clock, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got := s.Start()
	want := []common.Directive{
		common.SetVisible(common.SectionHome),
		common.SetSelected(common.SectionHome),
		common.SetMenuOpen(false),
		common.SetSlideIndex(0),
		common.SetSubmitEnabled(true),
		common.ShowTransient(common.TransientSuccess, false),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Start() mismatch (-want +got):\n%s", diff)
	}
	if !clock.Pending(TimerSlideAdvance) {
		t.Error("Expected slider timer to be armed")
	}
	if s.ID() == "" {
		t.Error("Expected a session id")
	}
}

func TestNavigateTransition(t *testing.T) {
	s, clock := newTestSession(t, nil)

	got := mustHandle(t, s, common.Navigate(common.SectionAbout))
	want := []common.Directive{
		common.SetVisible(common.SectionAbout),
		common.SetSelected(common.SectionAbout),
		common.SetMenuOpen(false),
		common.SetTransition(common.SectionAbout, common.PhaseEnter),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("navigate mismatch (-want +got):\n%s", diff)
	}

	settled := advance(t, s, clock, 50*time.Millisecond)
	if diff := cmp.Diff([]common.Directive{common.SetTransition(common.SectionAbout, common.PhaseSettled)}, settled); diff != "" {
		t.Errorf("transition mismatch (-want +got):\n%s", diff)
	}
}

func TestRapidNavigationSettlesLatestOnly(t *testing.T) {
	s, clock := newTestSession(t, nil)

	mustHandle(t, s, common.Navigate(common.SectionAbout))
	advance(t, s, clock, 20*time.Millisecond)
	mustHandle(t, s, common.Navigate(common.SectionServices))

	settled := advance(t, s, clock, 100*time.Millisecond)
	want := []common.Directive{common.SetTransition(common.SectionServices, common.PhaseSettled)}
	if diff := cmp.Diff(want, settled); diff != "" {
		t.Errorf("settle mismatch (-want +got):\n%s", diff)
	}
}

func TestNavigateUnknownLeavesStateUnchanged(t *testing.T) {
	s, _ := newTestSession(t, nil)
	mustHandle(t, s, common.MenuToggle())

	dirs, err := s.Handle(common.Navigate("pricing"))
	if !errors.Is(err, common.ErrUnknownTarget) {
		t.Fatalf("Expected unknown target error, got %v", err)
	}
	if dirs != nil {
		t.Errorf("Expected no directives, got %v", dirs)
	}

	st := s.State()
	if st.Active != common.SectionHome || !st.MenuOpen {
		t.Errorf("Expected home with open menu, got %s menu=%v", st.Active, st.MenuOpen)
	}
}

func TestCTANavigatesToContact(t *testing.T) {
	s, _ := newTestSession(t, nil)
	mustHandle(t, s, common.CTA())

	if got := s.State().Active; got != common.SectionContact {
		t.Errorf("Expected contact, got %s", got)
	}
}

func TestMenuToggleAndClose(t *testing.T) {
	s, _ := newTestSession(t, nil)

	got := mustHandle(t, s, common.MenuToggle())
	if diff := cmp.Diff([]common.Directive{common.SetMenuOpen(true)}, got); diff != "" {
		t.Errorf("toggle mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		name  string
		event common.Event
		open  bool
	}{
		{"narrow resize keeps menu", common.Resize(768), true},
		{"wide resize closes menu", common.Resize(1024), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mustHandle(t, s, tt.event)
			if got := s.State().MenuOpen; got != tt.open {
				t.Errorf("Expected menu open %v, got %v", tt.open, got)
			}
		})
	}

	mustHandle(t, s, common.MenuToggle())
	got = mustHandle(t, s, common.KeyPress(common.KeyEscape))
	if diff := cmp.Diff([]common.Directive{common.SetMenuOpen(false)}, got); diff != "" {
		t.Errorf("escape mismatch (-want +got):\n%s", diff)
	}
	if got := mustHandle(t, s, common.KeyPress(common.KeyEscape)); len(got) != 0 {
		t.Errorf("Expected no directives when menu already closed, got %v", got)
	}
}

func TestNavigationClosesMenu(t *testing.T) {
	s, _ := newTestSession(t, nil)
	mustHandle(t, s, common.MenuToggle())
	mustHandle(t, s, common.Navigate(common.SectionServices))

	if s.State().MenuOpen {
		t.Error("Expected navigation to close the menu")
	}
}

func TestBlurThenChangeClearsError(t *testing.T) {
	s, _ := newTestSession(t, nil)

	got := mustHandle(t, s, common.Blur(common.FieldEmail, "nope"))
	if diff := cmp.Diff([]common.Directive{common.SetErrorVisible(common.FieldEmail, true)}, got); diff != "" {
		t.Errorf("blur mismatch (-want +got):\n%s", diff)
	}

	got = mustHandle(t, s, common.Change(common.FieldEmail, "a@b.co"))
	if diff := cmp.Diff([]common.Directive{common.SetErrorVisible(common.FieldEmail, false)}, got); diff != "" {
		t.Errorf("change mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitAcceptedFlow(t *testing.T) {
	s, clock := newTestSession(t, nil)
	fillValid(t, s)

	got := mustHandle(t, s, common.Submit())
	want := []common.Directive{
		common.SetErrorVisible(common.FieldName, false),
		common.SetErrorVisible(common.FieldEmail, false),
		common.SetErrorVisible(common.FieldSubject, false),
		common.SetErrorVisible(common.FieldMessage, false),
		common.ClearForm(),
		common.SetSubmitEnabled(false),
		common.ShowTransient(common.TransientSuccess, true),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("submit mismatch (-want +got):\n%s", diff)
	}

	receipts := s.Receipts()
	if len(receipts) != 1 {
		t.Fatalf("Expected 1 receipt, got %d", len(receipts))
	}
	if receipts[0].Values[common.FieldName] != "Ann" {
		t.Errorf("Expected receipt name Ann, got %q", receipts[0].Values[common.FieldName])
	}
	for _, f := range s.State().Fields {
		if f.Value != "" {
			t.Errorf("Expected field %s to be cleared, got %q", f.Name, f.Value)
		}
	}

	// locked submit is ignored
	if got := mustHandle(t, s, common.Submit()); got != nil {
		t.Errorf("Expected locked submit to be ignored, got %v", got)
	}

	unlock := advance(t, s, clock, 2*time.Second)
	if diff := cmp.Diff([]common.Directive{common.SetSubmitEnabled(true)}, unlock); diff != "" {
		t.Errorf("unlock mismatch (-want +got):\n%s", diff)
	}
	if !s.State().SuccessVisible {
		t.Error("Expected success message still visible after 2s")
	}

	hide := advance(t, s, clock, 3*time.Second)
	var sawHide bool
	for _, d := range hide {
		if d == common.ShowTransient(common.TransientSuccess, false) {
			sawHide = true
		}
	}
	if !sawHide {
		t.Errorf("Expected success hide at 5s, got %v", hide)
	}
	if s.State().SuccessVisible {
		t.Error("Expected success message hidden")
	}
}

func TestSubmitRejectedKeepsValues(t *testing.T) {
	s, clock := newTestSession(t, nil)
	mustHandle(t, s, common.Change(common.FieldName, "A"))
	mustHandle(t, s, common.Change(common.FieldEmail, "bad"))

	got := mustHandle(t, s, common.Submit())
	want := []common.Directive{
		common.SetErrorVisible(common.FieldName, true),
		common.SetErrorVisible(common.FieldEmail, true),
		common.SetErrorVisible(common.FieldSubject, true),
		common.SetErrorVisible(common.FieldMessage, true),
		common.FocusField(common.FieldName),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("submit mismatch (-want +got):\n%s", diff)
	}

	res, ok := s.LastSubmit()
	if !ok || res.Accepted {
		t.Fatalf("Expected a rejected submit result, got %+v", res)
	}
	if !s.State().SubmitEnabled {
		t.Error("Expected submit to stay enabled after rejection")
	}
	if clock.Pending(TimerSubmitUnlock) {
		t.Error("Expected no unlock timer after rejection")
	}
	if len(s.Receipts()) != 0 {
		t.Errorf("Expected no receipts, got %d", len(s.Receipts()))
	}
}

func TestReceiptValuesAreSanitized(t *testing.T) {
	s, _ := newTestSession(t, nil)
	mustHandle(t, s, common.Change(common.FieldName, "<b>Ann</b>"))
	mustHandle(t, s, common.Change(common.FieldEmail, "a@b.co"))
	mustHandle(t, s, common.Change(common.FieldSubject, "Hey"))
	mustHandle(t, s, common.Change(common.FieldMessage, "<script>alert(1)</script>hello world"))
	mustHandle(t, s, common.Submit())

	r := s.Receipts()[0]
	if r.Values[common.FieldName] != "Ann" {
		t.Errorf("Expected tags stripped from name, got %q", r.Values[common.FieldName])
	}
	if strings.Contains(r.Values[common.FieldMessage], "script") {
		t.Errorf("Expected script removed from message, got %q", r.Values[common.FieldMessage])
	}
}

func TestResubmitRestartsSuccessCountdown(t *testing.T) {
	s, clock := newTestSession(t, nil)
	fillValid(t, s)
	mustHandle(t, s, common.Submit())

	advance(t, s, clock, 3*time.Second)
	fillValid(t, s)
	mustHandle(t, s, common.Submit())

	advance(t, s, clock, 4*time.Second)
	if !s.State().SuccessVisible {
		t.Error("Expected success still visible 4s after second submit")
	}
	advance(t, s, clock, time.Second)
	if s.State().SuccessVisible {
		t.Error("Expected success hidden 5s after second submit")
	}
}

func TestSliderAutoAdvanceAndKeys(t *testing.T) {
	s, clock := newTestSession(t, nil)

	got := advance(t, s, clock, 5*time.Second)
	if diff := cmp.Diff([]common.Directive{common.SetSlideIndex(1)}, got); diff != "" {
		t.Errorf("auto advance mismatch (-want +got):\n%s", diff)
	}

	mustHandle(t, s, common.KeyPress(common.KeyArrowRight))
	if got := s.State().Slide; got != 2 {
		t.Errorf("Expected slide 2, got %d", got)
	}
	mustHandle(t, s, common.KeyPress(common.KeyArrowRight))
	if got := s.State().Slide; got != 0 {
		t.Errorf("Expected wrap to 0, got %d", got)
	}
	mustHandle(t, s, common.KeyPress(common.KeyArrowLeft))
	if got := s.State().Slide; got != 2 {
		t.Errorf("Expected wrap to 2, got %d", got)
	}

	if got := mustHandle(t, s, common.KeyPress("Tab")); got != nil {
		t.Errorf("Expected other keys ignored, got %v", got)
	}
}

func TestExplicitSlideKeepsPeriod(t *testing.T) {
	tests := []struct {
		name  string
		reset bool
		want  int
	}{
		{"period kept", false, 2},
		{"period reset", true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, clock := newTestSession(t, func(o *Options) { o.ResetOnNavigate = tt.reset })

			advance(t, s, clock, 4*time.Second)
			mustHandle(t, s, common.SlideGoTo(2))
			advance(t, s, clock, time.Second)

			if got := s.State().Slide; got != tt.want {
				t.Errorf("Expected slide %d, got %d", tt.want, got)
			}
		})
	}
}

func TestSlideGoToOutOfRange(t *testing.T) {
	s, _ := newTestSession(t, nil)

	_, err := s.Handle(common.SlideGoTo(7))
	if !errors.Is(err, common.ErrUnknownTarget) {
		t.Fatalf("Expected unknown target error, got %v", err)
	}
	if got := s.State().Slide; got != 0 {
		t.Errorf("Expected slide unchanged, got %d", got)
	}
}

func TestEmptySliderNeverArms(t *testing.T) {
	s, clock := newTestSession(t, func(o *Options) { o.SlideCount = 0 })

	if clock.Pending(TimerSlideAdvance) {
		t.Error("Expected no slider timer without slides")
	}
	got := mustHandle(t, s, common.SlideStep(1))
	if diff := cmp.Diff([]common.Directive{common.SetSlideIndex(0)}, got); diff != "" {
		t.Errorf("step mismatch (-want +got):\n%s", diff)
	}
}

func TestIntersectOnce(t *testing.T) {
	s, _ := newTestSession(t, nil)

	tests := []struct {
		name   string
		target string
		want   []common.Directive
	}{
		{"reveal card", "card-1", []common.Directive{common.Reveal("card-1")}},
		{"reveal card again", "card-1", nil},
		{"load image", "hero", []common.Directive{common.LoadImage("hero", "img/hero.jpg")}},
		{"load image again", "hero", nil},
		{"unknown target", "footer", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustHandle(t, s, common.Intersect(tt.target))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("intersect mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnknownTimerAndEvent(t *testing.T) {
	s, _ := newTestSession(t, nil)

	if _, err := s.Handle(common.TimerFired("nope")); !errors.Is(err, common.ErrUnknownTarget) {
		t.Errorf("Expected unknown target for timer, got %v", err)
	}
	if _, err := s.Handle(common.Event{Type: "hover"}); !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("Expected invalid input for event type, got %v", err)
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"bad default", func(o *Options) { o.DefaultSection = "blog" }},
		{"bad cta", func(o *Options) { o.CTATarget = "blog" }},
		{"negative slides", func(o *Options) { o.SlideCount = -1 }},
		{"field without rule", func(o *Options) { o.Fields = append(o.Fields, "phone") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			if _, err := New(opts, scheduler.NewVirtual(), nil); !errors.Is(err, common.ErrConfiguration) {
				t.Errorf("Expected configuration error, got %v", err)
			}
		})
	}

	if _, err := New(DefaultOptions(), nil, nil); err == nil {
		t.Error("Expected error without scheduler")
	}
}

func TestReceiptTimestampFollowsClock(t *testing.T) {
	s, clock := newTestSession(t, nil)
	advance(t, s, clock, 1500*time.Millisecond)
	fillValid(t, s)
	mustHandle(t, s, common.Submit())

	if got := s.Receipts()[0].At; got != 1500*time.Millisecond {
		t.Errorf("Expected receipt at 1.5s, got %v", got)
	}
}
