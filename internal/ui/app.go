package ui

import (
	"fmt"
	"io"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/pagekit/internal/common"
	"github.com/yildizm/pagekit/internal/config"
	"github.com/yildizm/pagekit/internal/controller"
	"github.com/yildizm/pagekit/internal/journal"
	"github.com/yildizm/pagekit/internal/logger"
	"github.com/yildizm/pagekit/internal/scheduler"
	"github.com/yildizm/pagekit/internal/surface"
)

// pixelsPerColumn converts terminal columns to the viewport width the session sees
const pixelsPerColumn = 8

// Animation message
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Spinner characters
var spinnerChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Model hosts a page session in the terminal
type Model struct {
	cfg      *config.Config
	session  *controller.Session
	surface  *surface.Surface
	recorder *journal.Recorder
	timers   timerSource
	log      *logger.Logger
	styles   *Styles

	sections []common.Section
	fields   []common.FieldID
	formAt   common.Section

	width    int
	height   int
	viewport int
	ready    bool
	quitting bool

	// Form editing state; focus == len(fields) is the submit button
	editing bool
	focus   int
	inputs  map[common.FieldID]string

	spinnerFrame int
	status       string
}

// NewModel renders the session's initial state. timers may be nil when no
// scheduler delivers fired timers, and rec may be nil to skip recording.
func NewModel(cfg *config.Config, sess *controller.Session, timers timerSource, rec *journal.Recorder, log *logger.Logger) *Model {
	if log == nil {
		log = logger.Nop()
	}
	opts := sess.Options()

	m := &Model{
		cfg:      cfg,
		session:  sess,
		surface:  surface.New(),
		recorder: rec,
		timers:   timers,
		log:      log.WithComponent("ui"),
		styles:   GetStyles(),
		sections: opts.Sections,
		fields:   opts.Fields,
		formAt:   opts.CTATarget,
		viewport: cfg.UI.Width,
		inputs:   make(map[common.FieldID]string, len(opts.Fields)),
	}

	m.apply(sess.Start())
	m.enterSection(m.surface.Visible())
	if m.viewport > 0 {
		m.dispatch(common.Resize(m.viewport))
	}
	return m
}

// Init starts the timer pump and the animation tick
func (m *Model) Init() tea.Cmd {
	if m.timers == nil {
		return tick()
	}
	return tea.Batch(waitForTimer(m.timers.Events()), tick())
}

// Update handles incoming messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case firedMsg:
		return m.handleFired(msg)
	case timerMsg:
		m.dispatch(msg.event)
		return m, nil
	case timersClosedMsg:
		return m, nil
	case tickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m *Model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.viewport = msg.Width * pixelsPerColumn
	m.dispatch(common.Resize(m.viewport))
	return m, nil
}

// handleFired dispatches a fire unless its timer was re-armed or cancelled
// after it left the scheduler
func (m *Model) handleFired(msg firedMsg) (tea.Model, tea.Cmd) {
	if ev, ok := m.timers.Accept(msg.fire); ok {
		m.dispatch(ev)
	} else {
		m.log.Debug("dropped stale timer %s", msg.fire.Key)
	}
	return m, waitForTimer(m.timers.Events())
}

func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerChars)
	return m, tick()
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.handleQuit()
	}
	if m.editing {
		return m.handleFormKey(msg)
	}

	switch key := msg.String(); key {
	case "q":
		return m.handleQuit()
	case "tab":
		m.dispatch(common.Navigate(m.sectionAt(m.activeIndex() + 1)))
	case "shift+tab":
		m.dispatch(common.Navigate(m.sectionAt(m.activeIndex() - 1)))
	case "m":
		m.dispatch(common.MenuToggle())
	case "esc":
		m.dispatch(common.KeyPress(common.KeyEscape))
	case "left", "h":
		m.dispatch(common.KeyPress(common.KeyArrowLeft))
	case "right", "l":
		m.dispatch(common.KeyPress(common.KeyArrowRight))
	case "c":
		m.dispatch(common.CTA())
	case "f", "enter":
		if m.surface.Visible() == m.formAt && len(m.fields) > 0 {
			m.editing = true
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n, _ := strconv.Atoi(key)
		if n <= len(m.sections) {
			m.dispatch(common.Navigate(m.sections[n-1]))
		}
	}
	return m, nil
}

func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.blurFocused()
		m.editing = false
	case tea.KeyTab, tea.KeyDown:
		m.moveFocus(1)
	case tea.KeyShiftTab, tea.KeyUp:
		m.moveFocus(-1)
	case tea.KeyEnter:
		if m.focus == len(m.fields) {
			m.dispatch(common.Submit())
		} else {
			m.moveFocus(1)
		}
	case tea.KeyBackspace:
		if id, ok := m.focusedField(); ok {
			value := []rune(m.inputs[id])
			if len(value) > 0 {
				m.inputs[id] = string(value[:len(value)-1])
				m.dispatch(common.Change(id, m.inputs[id]))
			}
		}
	case tea.KeyRunes, tea.KeySpace:
		if id, ok := m.focusedField(); ok {
			m.inputs[id] += string(msg.Runes)
			m.dispatch(common.Change(id, m.inputs[id]))
		}
	}
	return m, nil
}

func (m *Model) handleQuit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// dispatch records ev, hands it to the session and applies the result
func (m *Model) dispatch(ev common.Event) {
	if m.recorder != nil {
		if err := m.recorder.Record(ev); err != nil {
			m.log.WarnWithFields("Failed to record event", []logger.Field{logger.Error(err)})
		}
	}

	before := m.surface.Visible()
	dirs, err := m.session.Handle(ev)
	if err != nil {
		m.status = err.Error()
		return
	}
	if ev.Type != common.EventTimer {
		m.status = ""
	}
	m.apply(dirs)

	if after := m.surface.Visible(); after != before {
		if after != m.formAt {
			m.editing = false
		}
		m.enterSection(after)
	}
}

func (m *Model) apply(dirs []common.Directive) {
	if err := m.surface.Apply(dirs...); err != nil {
		m.log.Error("Failed to apply directives: %v", err)
	}
	for _, d := range dirs {
		switch d.Type {
		case common.DirectiveClearForm:
			m.inputs = make(map[common.FieldID]string, len(m.fields))
			m.focus = 0
		case common.DirectiveFocusField:
			for i, id := range m.fields {
				if id == d.Field {
					m.focus = i
					m.editing = true
				}
			}
		}
	}
}

// enterSection reports the section's cards and images as scrolled into view
func (m *Model) enterSection(id common.Section) {
	section, ok := m.cfg.FindSection(id)
	if !ok {
		return
	}
	for _, card := range section.Cards {
		m.dispatch(common.Intersect(card.ID))
	}
	for _, img := range section.Images {
		m.dispatch(common.Intersect(img.ID))
	}
}

func (m *Model) moveFocus(delta int) {
	m.blurFocused()
	slots := len(m.fields) + 1
	m.focus = (m.focus + delta + slots) % slots
}

func (m *Model) blurFocused() {
	if id, ok := m.focusedField(); ok {
		m.dispatch(common.Blur(id, m.inputs[id]))
	}
}

func (m *Model) focusedField() (common.FieldID, bool) {
	if m.focus < 0 || m.focus >= len(m.fields) {
		return "", false
	}
	return m.fields[m.focus], true
}

func (m *Model) activeIndex() int {
	visible := m.surface.Visible()
	for i, s := range m.sections {
		if s == visible {
			return i
		}
	}
	return 0
}

func (m *Model) sectionAt(i int) common.Section {
	n := len(m.sections)
	return m.sections[(i%n+n)%n]
}

// narrow reports whether the viewport is at or below the menu breakpoint
func (m *Model) narrow() bool {
	return m.viewport > 0 && m.viewport <= m.session.Options().MenuBreakpoint
}

// RunOptions configures the terminal host
type RunOptions struct {
	// Record receives a replayable journal of the session when set
	Record io.Writer
	Logger *logger.Logger
}

// Run starts the terminal host for cfg and blocks until the user quits
func Run(cfg *config.Config, opts RunOptions) error {
	if !SetThemeByName(cfg.UI.Theme) {
		return fmt.Errorf("unknown theme %q", cfg.UI.Theme)
	}

	sched := scheduler.NewRealtime(16)
	defer sched.Close()

	sess, err := controller.New(cfg.SessionOptions(), sched, opts.Logger)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	var rec *journal.Recorder
	if opts.Record != nil {
		rec, err = journal.NewRecorder(opts.Record, sess.ID(), nil)
		if err != nil {
			return err
		}
	}

	model := NewModel(cfg, sess, sched, rec, opts.Logger)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
