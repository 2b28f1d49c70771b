package controller

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yildizm/pagekit/internal/common"
	"github.com/yildizm/pagekit/internal/form"
	"github.com/yildizm/pagekit/internal/logger"
	"github.com/yildizm/pagekit/internal/router"
	"github.com/yildizm/pagekit/internal/scheduler"
	"github.com/yildizm/pagekit/internal/slider"
)

// clock is implemented by schedulers that keep their own notion of time
type clock interface {
	Now() time.Duration
}

// Session turns host events into render directives. It is not safe for
// concurrent use; the host serializes events.
type Session struct {
	id     string
	opts   Options
	sched  scheduler.Scheduler
	log    *logger.Logger
	now    func() time.Duration
	router *router.Router
	form   *form.Form
	slider *slider.Slider

	revealed map[string]bool
	lazy     map[string]string

	submitLocked   bool
	successVisible bool
	settling       common.Section
	lastSubmit     *form.SubmitResult
	receipts       []Receipt
}

// New wires a session from options. Construction errors are configuration errors.
func New(opts Options, sched scheduler.Scheduler, log *logger.Logger) (*Session, error) {
	if sched == nil {
		return nil, common.NewConfigurationError("scheduler is required", nil)
	}
	if log == nil {
		log = logger.Nop()
	}
	if opts.Rules == nil {
		opts.Rules = form.DefaultRules()
	}

	reg, err := router.NewRegistry(opts.Sections, opts.DefaultSection)
	if err != nil {
		return nil, err
	}
	if opts.CTATarget == "" {
		opts.CTATarget = reg.Default()
	}
	if err := reg.Lookup(opts.CTATarget); err != nil {
		return nil, common.NewConfigurationError("invalid cta target", err)
	}

	f, err := form.New(opts.Fields, opts.Rules)
	if err != nil {
		return nil, err
	}
	sl, err := slider.New(opts.SlideCount)
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:       uuid.NewString(),
		opts:     opts,
		sched:    sched,
		router:   router.New(reg),
		form:     f,
		slider:   sl,
		revealed: make(map[string]bool, len(opts.RevealTargets)),
		lazy:     make(map[string]string, len(opts.LazyImages)),
	}
	s.log = log.WithComponent("session").With(logger.Session(s.id))

	for _, t := range opts.RevealTargets {
		s.revealed[t] = false
	}
	for t, src := range opts.LazyImages {
		s.lazy[t] = src
	}

	if c, ok := sched.(clock); ok {
		s.now = c.Now
	} else {
		started := time.Now()
		s.now = func() time.Duration { return time.Since(started) }
	}

	return s, nil
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Options returns the options the session was built with
func (s *Session) Options() Options {
	return s.opts
}

// Start renders the initial state and arms the slider
func (s *Session) Start() []common.Directive {
	dirs := s.router.Render()
	dirs = append(dirs,
		common.SetSlideIndex(s.slider.Index()),
		common.SetSubmitEnabled(true),
		common.ShowTransient(common.TransientSuccess, false),
	)
	s.armSlider()

	s.log.InfoWithFields("session started", []logger.Field{
		logger.Section(s.router.Active()),
		logger.F("slides", s.slider.Count()),
	})
	return dirs
}

// Handle applies one event and returns the directives it produced.
// Errors never leave the session in a partially updated state.
func (s *Session) Handle(ev common.Event) ([]common.Directive, error) {
	dirs, err := s.dispatch(ev)
	if err != nil {
		s.log.WarnWithFields("event rejected", []logger.Field{logger.Event(ev), logger.Error(err)})
		return nil, err
	}
	s.log.DebugWithFields("event handled", []logger.Field{logger.Event(ev), logger.F("directives", len(dirs))})
	return dirs, nil
}

func (s *Session) dispatch(ev common.Event) ([]common.Directive, error) {
	switch ev.Type {
	case common.EventNavigate:
		return s.navigate(ev.Section)
	case common.EventCTA:
		return s.navigate(s.opts.CTATarget)
	case common.EventMenuToggle:
		return []common.Directive{s.router.ToggleMenu()}, nil
	case common.EventFieldChange:
		return s.form.Change(ev.Field, ev.Value)
	case common.EventFieldBlur:
		return s.form.Blur(ev.Field, ev.Value)
	case common.EventSubmit:
		return s.submit(), nil
	case common.EventSlideStep:
		return s.step(ev.Direction)
	case common.EventSlideGoTo:
		return s.goTo(ev.Index)
	case common.EventResize:
		return s.resize(ev.Width), nil
	case common.EventKey:
		return s.key(ev.Key)
	case common.EventIntersect:
		return s.intersect(ev.Target), nil
	case common.EventTimer:
		return s.timer(ev.Timer)
	default:
		return nil, common.NewInvalidInputError(fmt.Sprintf("unsupported event type %q", ev.Type), nil)
	}
}

func (s *Session) navigate(target common.Section) ([]common.Directive, error) {
	dirs, err := s.router.NavigateTo(target)
	if err != nil {
		return nil, err
	}

	s.settling = target
	s.sched.After(TimerTransition, s.opts.TransitionDelay)
	return append(dirs, common.SetTransition(target, common.PhaseEnter)), nil
}

// submit validates the form and, on acceptance, records a receipt and locks
// the button for the submit-lock window. Rejected submissions leave the button
// enabled so the visitor can correct fields and retry at once.
func (s *Session) submit() []common.Directive {
	if s.submitLocked {
		s.log.Debug("submit ignored while locked")
		return nil
	}

	res := s.form.Submit()
	s.lastSubmit = &res
	dirs := res.Directives
	if !res.Accepted {
		s.log.InfoWithFields("submission rejected", []logger.Field{logger.FieldName(res.FirstInvalid)})
		return dirs
	}

	receipt := newReceipt(res.Values, s.now())
	s.receipts = append(s.receipts, receipt)

	s.submitLocked = true
	s.sched.After(TimerSubmitUnlock, s.opts.SubmitLock)
	s.successVisible = true
	s.sched.After(TimerSuccessHide, s.opts.SuccessDuration)

	s.log.InfoWithFields("submission accepted", []logger.Field{logger.F("receipt", receipt.ID)})
	return append(dirs,
		common.SetSubmitEnabled(false),
		common.ShowTransient(common.TransientSuccess, true),
	)
}

func (s *Session) step(direction int) ([]common.Directive, error) {
	d, err := s.slider.Advance(direction)
	if err != nil {
		return nil, err
	}
	s.explicitSlide()
	return []common.Directive{d}, nil
}

func (s *Session) goTo(n int) ([]common.Directive, error) {
	d, err := s.slider.GoTo(n)
	if err != nil {
		return nil, err
	}
	s.explicitSlide()
	return []common.Directive{d}, nil
}

func (s *Session) explicitSlide() {
	if s.opts.ResetOnNavigate {
		s.armSlider()
	}
}

func (s *Session) armSlider() {
	if s.slider.Count() > 0 && s.opts.SlideInterval > 0 {
		s.sched.Every(TimerSlideAdvance, s.opts.SlideInterval)
	}
}

func (s *Session) resize(width int) []common.Directive {
	if width <= s.opts.MenuBreakpoint {
		return nil
	}
	return s.closeMenu()
}

func (s *Session) closeMenu() []common.Directive {
	if d, changed := s.router.CloseMenu(); changed {
		return []common.Directive{d}
	}
	return nil
}

func (s *Session) key(k string) ([]common.Directive, error) {
	switch k {
	case common.KeyEscape:
		return s.closeMenu(), nil
	case common.KeyArrowLeft:
		return s.step(slider.Backward)
	case common.KeyArrowRight:
		return s.step(slider.Forward)
	default:
		return nil, nil
	}
}

func (s *Session) intersect(target string) []common.Directive {
	if done, ok := s.revealed[target]; ok {
		if done {
			return nil
		}
		s.revealed[target] = true
		return []common.Directive{common.Reveal(target)}
	}

	if src, ok := s.lazy[target]; ok {
		delete(s.lazy, target)
		return []common.Directive{common.LoadImage(target, src)}
	}

	s.log.Debug("ignoring intersection of unobserved target %q", target)
	return nil
}

func (s *Session) timer(key string) ([]common.Directive, error) {
	switch key {
	case TimerSlideAdvance:
		if s.slider.Count() == 0 {
			return nil, nil
		}
		d, err := s.slider.Advance(slider.Forward)
		if err != nil {
			return nil, err
		}
		return []common.Directive{d}, nil

	case TimerTransition:
		if s.settling == "" {
			return nil, nil
		}
		section := s.settling
		s.settling = ""
		return []common.Directive{common.SetTransition(section, common.PhaseSettled)}, nil

	case TimerSuccessHide:
		if !s.successVisible {
			return nil, nil
		}
		s.successVisible = false
		return []common.Directive{common.ShowTransient(common.TransientSuccess, false)}, nil

	case TimerSubmitUnlock:
		if !s.submitLocked {
			return nil, nil
		}
		s.submitLocked = false
		return []common.Directive{common.SetSubmitEnabled(true)}, nil

	default:
		return nil, common.NewUnknownTargetError("timer", key, "")
	}
}

// Receipts returns the accepted submissions in order
func (s *Session) Receipts() []Receipt {
	out := make([]Receipt, len(s.receipts))
	copy(out, s.receipts)
	return out
}

// LastSubmit returns the outcome of the latest submit that was not ignored
func (s *Session) LastSubmit() (form.SubmitResult, bool) {
	if s.lastSubmit == nil {
		return form.SubmitResult{}, false
	}
	return *s.lastSubmit, true
}

// State is a read-only view of session state
type State struct {
	SessionID      string         `json:"session_id"`
	Active         common.Section `json:"active"`
	MenuOpen       bool           `json:"menu_open"`
	Slide          int            `json:"slide"`
	SlideCount     int            `json:"slide_count"`
	Fields         []form.Field   `json:"fields"`
	Submittable    bool           `json:"submittable"`
	SubmitEnabled  bool           `json:"submit_enabled"`
	SuccessVisible bool           `json:"success_visible"`
	Receipts       int            `json:"receipts"`
}

// State returns a snapshot of the session
func (s *Session) State() State {
	return State{
		SessionID:      s.id,
		Active:         s.router.Active(),
		MenuOpen:       s.router.MenuOpen(),
		Slide:          s.slider.Index(),
		SlideCount:     s.slider.Count(),
		Fields:         s.form.Fields(),
		Submittable:    s.form.Submittable(),
		SubmitEnabled:  !s.submitLocked,
		SuccessVisible: s.successVisible,
		Receipts:       len(s.receipts),
	}
}
