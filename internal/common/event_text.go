package common

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// String encodes the event as the one-line form used in journals and scripts.
// Field values are written verbatim after the field name and may contain spaces;
// values that would not survive a line-oriented reader are Go-quoted.
func (e Event) String() string {
	switch e.Type {
	case EventNavigate:
		return fmt.Sprintf("%s %s", e.Type, e.Section)
	case EventFieldChange, EventFieldBlur:
		if e.Value == "" {
			return fmt.Sprintf("%s %s", e.Type, e.Field)
		}
		return fmt.Sprintf("%s %s %s", e.Type, e.Field, encodeValue(e.Value))
	case EventSlideStep:
		return fmt.Sprintf("%s %+d", e.Type, e.Direction)
	case EventSlideGoTo:
		return fmt.Sprintf("%s %d", e.Type, e.Index)
	case EventResize:
		return fmt.Sprintf("%s %d", e.Type, e.Width)
	case EventKey:
		return fmt.Sprintf("%s %s", e.Type, e.Key)
	case EventIntersect:
		return fmt.Sprintf("%s %s", e.Type, e.Target)
	case EventTimer:
		return fmt.Sprintf("%s %s", e.Type, e.Timer)
	default:
		return string(e.Type)
	}
}

// ParseEvent decodes the one-line event form produced by Event.String
func ParseEvent(text string) (Event, error) {
	text = strings.TrimLeft(text, " \t")
	text = strings.TrimRight(text, "\r\n")
	if strings.TrimSpace(text) == "" {
		return Event{}, NewInvalidInputError("empty event", nil)
	}

	parts := strings.SplitN(text, " ", 3)
	kind := EventType(parts[0])
	arg := func() (string, error) {
		if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
			return "", NewInvalidInputError(fmt.Sprintf("%s event requires an argument", kind), nil)
		}
		return strings.TrimSpace(parts[1]), nil
	}

	switch kind {
	case EventCTA, EventMenuToggle, EventSubmit:
		return Event{Type: kind}, nil

	case EventNavigate:
		a, err := arg()
		if err != nil {
			return Event{}, err
		}
		return Navigate(Section(a)), nil

	case EventFieldChange, EventFieldBlur:
		a, err := arg()
		if err != nil {
			return Event{}, err
		}
		value := ""
		if len(parts) == 3 {
			value = decodeValue(parts[2])
		}
		return Event{Type: kind, Field: FieldID(a), Value: value}, nil

	case EventSlideStep:
		a, err := arg()
		if err != nil {
			return Event{}, err
		}
		switch a {
		case "next":
			return SlideStep(1), nil
		case "prev":
			return SlideStep(-1), nil
		}
		n, err := strconv.Atoi(a)
		if err != nil || (n != 1 && n != -1) {
			return Event{}, NewInvalidInputError(fmt.Sprintf("slide direction must be +1 or -1, got %q", a), err)
		}
		return SlideStep(n), nil

	case EventSlideGoTo, EventResize:
		a, err := arg()
		if err != nil {
			return Event{}, err
		}
		n, err := strconv.Atoi(a)
		if err != nil {
			return Event{}, NewInvalidInputError(fmt.Sprintf("%s expects a number, got %q", kind, a), err)
		}
		if kind == EventResize {
			return Resize(n), nil
		}
		return SlideGoTo(n), nil

	case EventKey:
		a, err := arg()
		if err != nil {
			return Event{}, err
		}
		return KeyPress(a), nil

	case EventIntersect:
		a, err := arg()
		if err != nil {
			return Event{}, err
		}
		return Intersect(a), nil

	case EventTimer:
		a, err := arg()
		if err != nil {
			return Event{}, err
		}
		return TimerFired(a), nil
	}

	return Event{}, NewInvalidInputError(fmt.Sprintf("unknown event type %q", parts[0]), nil)
}

// encodeValue quotes values with control characters, edge whitespace or a
// leading quote so ParseEvent returns them unchanged
func encodeValue(v string) string {
	if strings.HasPrefix(v, `"`) || strings.TrimSpace(v) != v {
		return strconv.Quote(v)
	}
	for _, r := range v {
		if unicode.IsControl(r) || r == '\u2028' || r == '\u2029' {
			return strconv.Quote(v)
		}
	}
	return v
}

func decodeValue(v string) string {
	if strings.HasPrefix(v, `"`) {
		if unquoted, err := strconv.Unquote(v); err == nil {
			return unquoted
		}
	}
	return v
}
