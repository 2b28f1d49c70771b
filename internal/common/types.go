package common

import (
	"fmt"
	"strconv"
)

// Section names one mutually exclusive content panel of the page
type Section string

// FieldID names one input of the contact form
type FieldID string

// Contact form fields in declaration order
const (
	FieldName    FieldID = "name"
	FieldEmail   FieldID = "email"
	FieldSubject FieldID = "subject"
	FieldMessage FieldID = "message"
)

// DefaultFields returns the contact form fields in the order they are checked on submit
func DefaultFields() []FieldID {
	return []FieldID{FieldName, FieldEmail, FieldSubject, FieldMessage}
}

// Default page sections
const (
	SectionHome     Section = "home"
	SectionAbout    Section = "about"
	SectionServices Section = "services"
	SectionContact  Section = "contact"
)

// DefaultSections returns the stock section set in navigation order
func DefaultSections() []Section {
	return []Section{SectionHome, SectionAbout, SectionServices, SectionContact}
}

// Keys understood by the session controller
const (
	KeyEscape     = "Escape"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
)

// Transient indicator names
const (
	TransientSuccess = "success"
)

// Page transition phases
const (
	PhaseEnter   = "enter"
	PhaseSettled = "settled"
)

// EventType identifies an inbound host event
type EventType string

const (
	EventNavigate    EventType = "navigate"
	EventCTA         EventType = "cta"
	EventMenuToggle  EventType = "menu"
	EventFieldChange EventType = "change"
	EventFieldBlur   EventType = "blur"
	EventSubmit      EventType = "submit"
	EventSlideStep   EventType = "slide"
	EventSlideGoTo   EventType = "goto"
	EventResize      EventType = "resize"
	EventKey         EventType = "key"
	EventIntersect   EventType = "intersect"
	EventTimer       EventType = "timer"
)

// Event is one inbound notification from the host surface. Only the fields
// relevant to Type are populated.
type Event struct {
	Type      EventType `yaml:"type" toml:"type" json:"type"`
	Section   Section   `yaml:"section,omitempty" toml:"section" json:"section,omitempty"`
	Field     FieldID   `yaml:"field,omitempty" toml:"field" json:"field,omitempty"`
	Value     string    `yaml:"value,omitempty" toml:"value" json:"value,omitempty"`
	Direction int       `yaml:"direction,omitempty" toml:"direction" json:"direction,omitempty"`
	Index     int       `yaml:"index,omitempty" toml:"index" json:"index,omitempty"`
	Width     int       `yaml:"width,omitempty" toml:"width" json:"width,omitempty"`
	Key       string    `yaml:"key,omitempty" toml:"key" json:"key,omitempty"`
	Target    string    `yaml:"target,omitempty" toml:"target" json:"target,omitempty"`
	Timer     string    `yaml:"timer,omitempty" toml:"timer" json:"timer,omitempty"`
}

// Event constructors

func Navigate(section Section) Event {
	return Event{Type: EventNavigate, Section: section}
}

func CTA() Event {
	return Event{Type: EventCTA}
}

func MenuToggle() Event {
	return Event{Type: EventMenuToggle}
}

func Change(field FieldID, value string) Event {
	return Event{Type: EventFieldChange, Field: field, Value: value}
}

func Blur(field FieldID, value string) Event {
	return Event{Type: EventFieldBlur, Field: field, Value: value}
}

func Submit() Event {
	return Event{Type: EventSubmit}
}

func SlideStep(direction int) Event {
	return Event{Type: EventSlideStep, Direction: direction}
}

func SlideGoTo(n int) Event {
	return Event{Type: EventSlideGoTo, Index: n}
}

func Resize(width int) Event {
	return Event{Type: EventResize, Width: width}
}

func KeyPress(key string) Event {
	return Event{Type: EventKey, Key: key}
}

func Intersect(target string) Event {
	return Event{Type: EventIntersect, Target: target}
}

func TimerFired(key string) Event {
	return Event{Type: EventTimer, Timer: key}
}

// DirectiveType identifies an outbound render directive
type DirectiveType string

const (
	DirectiveSetVisible       DirectiveType = "set_visible"
	DirectiveSetSelected      DirectiveType = "set_selected"
	DirectiveSetMenuOpen      DirectiveType = "set_menu_open"
	DirectiveSetErrorVisible  DirectiveType = "set_error_visible"
	DirectiveSetSubmitEnabled DirectiveType = "set_submit_enabled"
	DirectiveShowTransient    DirectiveType = "show_transient"
	DirectiveSetSlideIndex    DirectiveType = "set_slide_index"
	DirectiveFocusField       DirectiveType = "focus_field"
	DirectiveClearForm        DirectiveType = "clear_form"
	DirectiveSetTransition    DirectiveType = "set_transition"
	DirectiveReveal           DirectiveType = "reveal"
	DirectiveLoadImage        DirectiveType = "load_image"
)

// Directive tells the rendering layer how to change presentation state
type Directive struct {
	Type    DirectiveType `json:"type"`
	Section Section       `json:"section,omitempty"`
	Field   FieldID       `json:"field,omitempty"`
	Name    string        `json:"name,omitempty"`
	Target  string        `json:"target,omitempty"`
	Source  string        `json:"source,omitempty"`
	Phase   string        `json:"phase,omitempty"`
	Index   int           `json:"index"`
	On      bool          `json:"on"`
}

// Directive constructors

func SetVisible(section Section) Directive {
	return Directive{Type: DirectiveSetVisible, Section: section, On: true}
}

func SetSelected(section Section) Directive {
	return Directive{Type: DirectiveSetSelected, Section: section, On: true}
}

func SetMenuOpen(open bool) Directive {
	return Directive{Type: DirectiveSetMenuOpen, On: open}
}

func SetErrorVisible(field FieldID, visible bool) Directive {
	return Directive{Type: DirectiveSetErrorVisible, Field: field, On: visible}
}

func SetSubmitEnabled(enabled bool) Directive {
	return Directive{Type: DirectiveSetSubmitEnabled, On: enabled}
}

func ShowTransient(name string, visible bool) Directive {
	return Directive{Type: DirectiveShowTransient, Name: name, On: visible}
}

func SetSlideIndex(index int) Directive {
	return Directive{Type: DirectiveSetSlideIndex, Index: index}
}

func FocusField(field FieldID) Directive {
	return Directive{Type: DirectiveFocusField, Field: field, On: true}
}

func ClearForm() Directive {
	return Directive{Type: DirectiveClearForm}
}

func SetTransition(section Section, phase string) Directive {
	return Directive{Type: DirectiveSetTransition, Section: section, Phase: phase}
}

func Reveal(target string) Directive {
	return Directive{Type: DirectiveReveal, Target: target, On: true}
}

func LoadImage(target, source string) Directive {
	return Directive{Type: DirectiveLoadImage, Target: target, Source: source, On: true}
}

// String renders a directive as a single readable line
func (d Directive) String() string {
	switch d.Type {
	case DirectiveSetVisible, DirectiveSetSelected:
		return fmt.Sprintf("%s %s", d.Type, d.Section)
	case DirectiveSetMenuOpen, DirectiveSetSubmitEnabled:
		return fmt.Sprintf("%s %s", d.Type, onOff(d.On))
	case DirectiveSetErrorVisible:
		return fmt.Sprintf("%s %s %s", d.Type, d.Field, onOff(d.On))
	case DirectiveShowTransient:
		return fmt.Sprintf("%s %s %s", d.Type, d.Name, onOff(d.On))
	case DirectiveSetSlideIndex:
		return fmt.Sprintf("%s %s", d.Type, strconv.Itoa(d.Index))
	case DirectiveFocusField:
		return fmt.Sprintf("%s %s", d.Type, d.Field)
	case DirectiveSetTransition:
		return fmt.Sprintf("%s %s %s", d.Type, d.Section, d.Phase)
	case DirectiveReveal:
		return fmt.Sprintf("%s %s", d.Type, d.Target)
	case DirectiveLoadImage:
		return fmt.Sprintf("%s %s %s", d.Type, d.Target, d.Source)
	default:
		return string(d.Type)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
