package controller

import (
	"time"

	"github.com/yildizm/pagekit/internal/common"
	"github.com/yildizm/pagekit/internal/form"
)

// Timer keys armed by a session
const (
	TimerTransition   = "page.transition"
	TimerSuccessHide  = "success.hide"
	TimerSubmitUnlock = "submit.unlock"
	TimerSlideAdvance = "slider.advance"
)

// Options configures a session
type Options struct {
	Sections       []common.Section
	DefaultSection common.Section
	CTATarget      common.Section
	MenuBreakpoint int

	Fields []common.FieldID
	Rules  map[common.FieldID]form.Rule

	SlideCount      int
	SlideInterval   time.Duration
	ResetOnNavigate bool

	TransitionDelay time.Duration
	SuccessDuration time.Duration
	SubmitLock      time.Duration

	// RevealTargets are elements shown once when they first intersect
	RevealTargets []string
	// LazyImages maps an image target to the source loaded on first intersection
	LazyImages map[string]string
}

// DefaultOptions returns the stock site behaviour
func DefaultOptions() Options {
	return Options{
		Sections:        common.DefaultSections(),
		DefaultSection:  common.SectionHome,
		CTATarget:       common.SectionContact,
		MenuBreakpoint:  768,
		Fields:          common.DefaultFields(),
		Rules:           form.DefaultRules(),
		SlideCount:      3,
		SlideInterval:   5 * time.Second,
		TransitionDelay: 50 * time.Millisecond,
		SuccessDuration: 5 * time.Second,
		SubmitLock:      2 * time.Second,
	}
}
