package form

import (
	"fmt"

	"github.com/yildizm/pagekit/internal/common"
)

// Field is a snapshot of one form input
type Field struct {
	Name  common.FieldID `json:"name"`
	Value string         `json:"value"`
	Valid bool           `json:"valid"`

	// Flagged is set while the field's error is shown
	Flagged bool `json:"flagged"`
}

// Result is the outcome of validating one value
type Result struct {
	Field common.FieldID `json:"field"`
	Valid bool           `json:"valid"`
}

// SubmitResult is the outcome of a submit attempt
type SubmitResult struct {
	Accepted     bool                      `json:"accepted"`
	Invalid      []common.FieldID          `json:"invalid,omitempty"`
	FirstInvalid common.FieldID            `json:"first_invalid,omitempty"`
	Values       map[common.FieldID]string `json:"values,omitempty"`
	Directives   []common.Directive        `json:"-"`
}

type fieldState struct {
	value   string
	flagged bool
}

// Form holds per-field values and error flags for the fields present on the page.
// Fields that have a rule but are absent from the page are always valid.
type Form struct {
	order  []common.FieldID
	rules  map[common.FieldID]Rule
	fields map[common.FieldID]*fieldState
}

// New creates a form for the present fields. Every present field needs a rule.
func New(present []common.FieldID, rules map[common.FieldID]Rule) (*Form, error) {
	f := &Form{
		order:  make([]common.FieldID, 0, len(present)),
		rules:  rules,
		fields: make(map[common.FieldID]*fieldState, len(present)),
	}

	for _, id := range present {
		if _, ok := rules[id]; !ok {
			return nil, common.NewConfigurationError(fmt.Sprintf("field %q has no validation rule", id), nil)
		}
		if _, dup := f.fields[id]; dup {
			return nil, common.NewConfigurationError(fmt.Sprintf("duplicate field %q", id), nil)
		}
		f.fields[id] = &fieldState{}
		f.order = append(f.order, id)
	}

	return f, nil
}

// Present reports whether the field exists on the page
func (f *Form) Present(id common.FieldID) bool {
	_, ok := f.fields[id]
	return ok
}

// Validate applies the field's rule to raw without touching form state
func (f *Form) Validate(id common.FieldID, raw string) (Result, error) {
	rule, ok := f.rules[id]
	if !ok {
		return Result{}, common.NewUnknownTargetError("field", string(id), "")
	}
	if !f.Present(id) {
		return Result{Field: id, Valid: true}, nil
	}
	return Result{Field: id, Valid: rule(raw)}, nil
}

// Blur stores value and validates it unconditionally
func (f *Form) Blur(id common.FieldID, value string) ([]common.Directive, error) {
	st, err := f.lookup(id)
	if err != nil || st == nil {
		return nil, err
	}

	st.value = value
	return []common.Directive{f.check(id, st)}, nil
}

// Change stores value and only re-validates a field whose error is showing,
// so a valid field does not flicker on every keystroke but a fixed one clears at once
func (f *Form) Change(id common.FieldID, value string) ([]common.Directive, error) {
	st, err := f.lookup(id)
	if err != nil || st == nil {
		return nil, err
	}

	st.value = value
	if !st.flagged {
		return nil, nil
	}
	return []common.Directive{f.check(id, st)}, nil
}

// Submit re-validates every present field in declaration order. An accepted
// submission resets the form; a rejected one keeps every value and points at
// the first invalid field.
func (f *Form) Submit() SubmitResult {
	res := SubmitResult{
		Values:     f.Values(),
		Directives: make([]common.Directive, 0, len(f.order)+1),
	}

	for _, id := range f.order {
		st := f.fields[id]
		d := f.check(id, st)
		res.Directives = append(res.Directives, d)
		if st.flagged {
			res.Invalid = append(res.Invalid, id)
		}
	}

	if len(res.Invalid) > 0 {
		res.FirstInvalid = res.Invalid[0]
		res.Directives = append(res.Directives, common.FocusField(res.FirstInvalid))
		return res
	}

	res.Accepted = true
	res.Directives = append(res.Directives, f.Reset()...)
	return res
}

// Reset clears all values and error flags
func (f *Form) Reset() []common.Directive {
	for _, st := range f.fields {
		st.value = ""
		st.flagged = false
	}
	return []common.Directive{common.ClearForm()}
}

// Submittable reports whether every present field currently passes its rule
func (f *Form) Submittable() bool {
	for _, id := range f.order {
		if !f.rules[id](f.fields[id].value) {
			return false
		}
	}
	return true
}

// Field returns a snapshot of a present field
func (f *Form) Field(id common.FieldID) (Field, bool) {
	st, ok := f.fields[id]
	if !ok {
		return Field{}, false
	}
	return Field{
		Name:    id,
		Value:   st.value,
		Valid:   f.rules[id](st.value),
		Flagged: st.flagged,
	}, true
}

// Fields returns snapshots of all present fields in declaration order
func (f *Form) Fields() []Field {
	out := make([]Field, 0, len(f.order))
	for _, id := range f.order {
		field, _ := f.Field(id)
		out = append(out, field)
	}
	return out
}

// Values returns the current raw values of present fields
func (f *Form) Values() map[common.FieldID]string {
	out := make(map[common.FieldID]string, len(f.order))
	for _, id := range f.order {
		out[id] = f.fields[id].value
	}
	return out
}

// lookup returns (nil, nil) for known fields absent from the page
func (f *Form) lookup(id common.FieldID) (*fieldState, error) {
	if _, ok := f.rules[id]; !ok {
		return nil, common.NewUnknownTargetError("field", string(id), "")
	}
	return f.fields[id], nil
}

func (f *Form) check(id common.FieldID, st *fieldState) common.Directive {
	st.flagged = !f.rules[id](st.value)
	return common.SetErrorVisible(id, st.flagged)
}
