package router

import (
	"github.com/yildizm/pagekit/internal/common"
)

// Router tracks the single visible section and the mobile menu overlay
type Router struct {
	registry *Registry
	active   common.Section
	menuOpen bool
}

// New creates a router showing the registry's default section with the menu closed
func New(registry *Registry) *Router {
	return &Router{
		registry: registry,
		active:   registry.Default(),
	}
}

// Registry returns the section registry the router validates against
func (r *Router) Registry() *Registry {
	return r.registry
}

// Active returns the visible section
func (r *Router) Active() common.Section {
	return r.active
}

// MenuOpen reports whether the mobile navigation overlay is open
func (r *Router) MenuOpen() bool {
	return r.menuOpen
}

// NavigateTo makes target the only visible section, selects its nav indicator
// and closes the menu. Navigating to the active section re-renders the same
// state. Unknown targets leave the state untouched.
func (r *Router) NavigateTo(target common.Section) ([]common.Directive, error) {
	if err := r.registry.Lookup(target); err != nil {
		return nil, err
	}

	r.active = target
	r.menuOpen = false

	return r.Render(), nil
}

// Render returns the directives describing the current navigation state
func (r *Router) Render() []common.Directive {
	return []common.Directive{
		common.SetVisible(r.active),
		common.SetSelected(r.active),
		common.SetMenuOpen(r.menuOpen),
	}
}

// ToggleMenu flips the mobile menu overlay
func (r *Router) ToggleMenu() common.Directive {
	r.menuOpen = !r.menuOpen
	return common.SetMenuOpen(r.menuOpen)
}

// CloseMenu closes the overlay. changed is false when it was already closed.
func (r *Router) CloseMenu() (d common.Directive, changed bool) {
	changed = r.menuOpen
	r.menuOpen = false
	return common.SetMenuOpen(false), changed
}
