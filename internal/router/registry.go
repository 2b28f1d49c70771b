package router

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/yildizm/pagekit/internal/common"
	"golang.org/x/text/cases"
)

// maxSuggestionDistance bounds how far a mistyped section may be from a known one
// before no suggestion is offered
const maxSuggestionDistance = 2

// Registry is the closed set of sections known to a page, validated once at startup
type Registry struct {
	order    []common.Section
	index    map[common.Section]int
	fallback common.Section
}

// NewRegistry validates the section list and the default section
func NewRegistry(sections []common.Section, defaultSection common.Section) (*Registry, error) {
	if len(sections) == 0 {
		return nil, common.NewConfigurationError("at least one section is required", nil)
	}

	r := &Registry{
		order: make([]common.Section, 0, len(sections)),
		index: make(map[common.Section]int, len(sections)),
	}

	for _, s := range sections {
		if strings.TrimSpace(string(s)) == "" {
			return nil, common.NewConfigurationError("section id must not be blank", nil)
		}
		if _, dup := r.index[s]; dup {
			return nil, common.NewConfigurationError(fmt.Sprintf("duplicate section %q", s), nil)
		}
		r.index[s] = len(r.order)
		r.order = append(r.order, s)
	}

	if defaultSection == "" {
		defaultSection = r.order[0]
	}
	if _, ok := r.index[defaultSection]; !ok {
		return nil, common.NewConfigurationError(
			fmt.Sprintf("default section %q is not registered", defaultSection), nil)
	}
	r.fallback = defaultSection

	return r, nil
}

// Sections returns the registered sections in navigation order
func (r *Registry) Sections() []common.Section {
	out := make([]common.Section, len(r.order))
	copy(out, r.order)
	return out
}

// Default returns the section shown at startup
func (r *Registry) Default() common.Section {
	return r.fallback
}

// Contains reports whether s is registered
func (r *Registry) Contains(s common.Section) bool {
	_, ok := r.index[s]
	return ok
}

// Lookup returns an unknown_target error for sections outside the set
func (r *Registry) Lookup(s common.Section) error {
	if r.Contains(s) {
		return nil
	}
	return common.NewUnknownTargetError("section", string(s), r.suggest(s))
}

// suggest returns the closest registered section within maxSuggestionDistance
func (r *Registry) suggest(s common.Section) string {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(string(s)))
	if needle == "" {
		return ""
	}

	best := ""
	bestDist := maxSuggestionDistance + 1
	for _, candidate := range r.order {
		d := levenshtein.ComputeDistance(needle, fold.String(string(candidate)))
		if d < bestDist {
			best = string(candidate)
			bestDist = d
		}
	}
	return best
}
