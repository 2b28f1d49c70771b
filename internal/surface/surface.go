// Package surface keeps an in-memory picture of the rendered page by applying
// directives in order. Hosts render from it and replay reports its final state.
package surface

import (
	"fmt"
	"sort"

	"github.com/yildizm/pagekit/internal/common"
)

// Surface is the presentation state produced by directives
type Surface struct {
	visible       map[common.Section]bool
	selected      map[common.Section]bool
	menuOpen      bool
	errors        map[common.FieldID]bool
	focused       common.FieldID
	submitEnabled bool
	transients    map[string]bool
	slide         int
	transition    map[common.Section]string
	revealed      map[string]bool
	loaded        map[string]string
	cleared       int
}

// New creates an empty surface with submit enabled
func New() *Surface {
	return &Surface{
		visible:       make(map[common.Section]bool),
		selected:      make(map[common.Section]bool),
		errors:        make(map[common.FieldID]bool),
		submitEnabled: true,
		transients:    make(map[string]bool),
		transition:    make(map[common.Section]string),
		revealed:      make(map[string]bool),
		loaded:        make(map[string]string),
	}
}

// Apply applies directives in order
func (s *Surface) Apply(dirs ...common.Directive) error {
	for _, d := range dirs {
		if err := s.apply(d); err != nil {
			return err
		}
	}
	return nil
}

func (s *Surface) apply(d common.Directive) error {
	switch d.Type {
	case common.DirectiveSetVisible:
		// showing one section hides the others
		for k := range s.visible {
			delete(s.visible, k)
		}
		s.visible[d.Section] = d.On
	case common.DirectiveSetSelected:
		for k := range s.selected {
			delete(s.selected, k)
		}
		s.selected[d.Section] = d.On
	case common.DirectiveSetMenuOpen:
		s.menuOpen = d.On
	case common.DirectiveSetErrorVisible:
		s.errors[d.Field] = d.On
	case common.DirectiveSetSubmitEnabled:
		s.submitEnabled = d.On
	case common.DirectiveShowTransient:
		s.transients[d.Name] = d.On
	case common.DirectiveSetSlideIndex:
		s.slide = d.Index
	case common.DirectiveFocusField:
		s.focused = d.Field
	case common.DirectiveClearForm:
		s.cleared++
		s.focused = ""
	case common.DirectiveSetTransition:
		s.transition[d.Section] = d.Phase
	case common.DirectiveReveal:
		s.revealed[d.Target] = true
	case common.DirectiveLoadImage:
		s.loaded[d.Target] = d.Source
	default:
		return common.NewInvalidInputError(fmt.Sprintf("unknown directive %q", d.Type), nil)
	}
	return nil
}

// Check verifies that exactly one section is visible and that it is the selected one
func (s *Surface) Check() error {
	visible := onKeys(s.visible)
	selected := onKeys(s.selected)

	if len(visible) != 1 {
		return fmt.Errorf("expected exactly one visible section, got %v", visible)
	}
	if len(selected) != 1 || selected[0] != visible[0] {
		return fmt.Errorf("visible section %s does not match selected %v", visible[0], selected)
	}
	return nil
}

// Visible returns the visible section, or "" if none
func (s *Surface) Visible() common.Section {
	v := onKeys(s.visible)
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

func (s *Surface) MenuOpen() bool {
	return s.menuOpen
}

func (s *Surface) ErrorVisible(field common.FieldID) bool {
	return s.errors[field]
}

func (s *Surface) Focused() common.FieldID {
	return s.focused
}

func (s *Surface) SubmitEnabled() bool {
	return s.submitEnabled
}

func (s *Surface) Transient(name string) bool {
	return s.transients[name]
}

func (s *Surface) Slide() int {
	return s.slide
}

func (s *Surface) Transition(section common.Section) string {
	return s.transition[section]
}

func (s *Surface) Revealed(target string) bool {
	return s.revealed[target]
}

func (s *Surface) Loaded(target string) (string, bool) {
	src, ok := s.loaded[target]
	return src, ok
}

// Snapshot is a serializable copy of the surface
type Snapshot struct {
	Visible       common.Section    `json:"visible" yaml:"visible"`
	Selected      common.Section    `json:"selected" yaml:"selected"`
	MenuOpen      bool              `json:"menu_open" yaml:"menu_open"`
	Errors        []common.FieldID  `json:"errors,omitempty" yaml:"errors,omitempty"`
	Focused       common.FieldID    `json:"focused,omitempty" yaml:"focused,omitempty"`
	SubmitEnabled bool              `json:"submit_enabled" yaml:"submit_enabled"`
	Transients    []string          `json:"transients,omitempty" yaml:"transients,omitempty"`
	Slide         int               `json:"slide" yaml:"slide"`
	Transition    string            `json:"transition,omitempty" yaml:"transition,omitempty"`
	Revealed      []string          `json:"revealed,omitempty" yaml:"revealed,omitempty"`
	Loaded        map[string]string `json:"loaded,omitempty" yaml:"loaded,omitempty"`
	FormsCleared  int               `json:"forms_cleared" yaml:"forms_cleared"`
}

// Snapshot copies the current state with sorted collections
func (s *Surface) Snapshot() Snapshot {
	snap := Snapshot{
		Visible:       s.Visible(),
		MenuOpen:      s.menuOpen,
		Errors:        onKeys(s.errors),
		Focused:       s.focused,
		SubmitEnabled: s.submitEnabled,
		Transients:    onKeys(s.transients),
		Slide:         s.slide,
		Revealed:      onKeys(s.revealed),
		FormsCleared:  s.cleared,
	}
	if sel := onKeys(s.selected); len(sel) > 0 {
		snap.Selected = sel[0]
	}
	if snap.Visible != "" {
		snap.Transition = s.transition[snap.Visible]
	}
	if len(s.loaded) > 0 {
		snap.Loaded = make(map[string]string, len(s.loaded))
		for k, v := range s.loaded {
			snap.Loaded[k] = v
		}
	}
	return snap
}

func onKeys[K ~string](m map[K]bool) []K {
	var out []K
	for k, on := range m {
		if on {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
