package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named set of adaptive colors used by the page renderer
type Theme struct {
	Name string

	// Brand colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Accent    lipgloss.AdaptiveColor

	// Feedback colors
	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor
	Info    lipgloss.AdaptiveColor

	// Surface colors
	Border     lipgloss.AdaptiveColor
	Foreground lipgloss.AdaptiveColor
	Muted      lipgloss.AdaptiveColor
	Selected   lipgloss.AdaptiveColor
}

// pair is a light/dark hex color pair
type pair struct{ light, dark string }

func (p pair) color() lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: p.light, Dark: p.dark}
}

// palette lists a theme's colors by role
type palette struct {
	primary, secondary, accent   pair
	success, warning, fail, info pair
	border, fg, muted, selected  pair
}

func (p palette) theme(name string) Theme {
	return Theme{
		Name:       name,
		Primary:    p.primary.color(),
		Secondary:  p.secondary.color(),
		Accent:     p.accent.color(),
		Success:    p.success.color(),
		Warning:    p.warning.color(),
		Error:      p.fail.color(),
		Info:       p.info.color(),
		Border:     p.border.color(),
		Foreground: p.fg.color(),
		Muted:      p.muted.color(),
		Selected:   p.selected.color(),
	}
}

// Available themes
var (
	DefaultTheme = palette{
		primary:   pair{"#0F766E", "#2DD4BF"},
		secondary: pair{"#475569", "#94A3B8"},
		accent:    pair{"#B45309", "#FBBF24"},
		success:   pair{"#15803D", "#4ADE80"},
		warning:   pair{"#C2410C", "#FB923C"},
		fail:      pair{"#B91C1C", "#F87171"},
		info:      pair{"#1D4ED8", "#60A5FA"},
		border:    pair{"#CBD5E1", "#334155"},
		fg:        pair{"#0F172A", "#F1F5F9"},
		muted:     pair{"#64748B", "#94A3B8"},
		selected:  pair{"#CCFBF1", "#134E4A"},
	}.theme("default")

	HighContrastTheme = palette{
		primary:   pair{"#000000", "#FFFFFF"},
		secondary: pair{"#333333", "#DDDDDD"},
		accent:    pair{"#0000AA", "#FFFF00"},
		success:   pair{"#005500", "#00FF66"},
		warning:   pair{"#994400", "#FFCC00"},
		fail:      pair{"#AA0000", "#FF5555"},
		info:      pair{"#0033AA", "#66CCFF"},
		border:    pair{"#000000", "#FFFFFF"},
		fg:        pair{"#000000", "#FFFFFF"},
		muted:     pair{"#444444", "#CCCCCC"},
		selected:  pair{"#FFFF00", "#0000AA"},
	}.theme("high-contrast")

	MinimalTheme = palette{
		primary:   pair{"#262626", "#E5E5E5"},
		secondary: pair{"#737373", "#A3A3A3"},
		accent:    pair{"#404040", "#D4D4D4"},
		success:   pair{"#262626", "#E5E5E5"},
		warning:   pair{"#404040", "#D4D4D4"},
		fail:      pair{"#171717", "#FAFAFA"},
		info:      pair{"#525252", "#A3A3A3"},
		border:    pair{"#D4D4D4", "#404040"},
		fg:        pair{"#171717", "#FAFAFA"},
		muted:     pair{"#A3A3A3", "#737373"},
		selected:  pair{"#E5E5E5", "#262626"},
	}.theme("minimal")
)

// Current active theme
var currentTheme = DefaultTheme

// GetTheme returns the current active theme
func GetTheme() Theme {
	return currentTheme
}

// SetTheme sets the active theme
func SetTheme(theme *Theme) {
	currentTheme = *theme
}

// SetThemeByName sets the theme by name
func SetThemeByName(name string) bool {
	switch name {
	case "", "default":
		SetTheme(&DefaultTheme)
		return true
	case "high-contrast":
		SetTheme(&HighContrastTheme)
		return true
	case "minimal":
		SetTheme(&MinimalTheme)
		return true
	default:
		return false
	}
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// GetAvailableThemes returns list of available theme names
func GetAvailableThemes() []string {
	return []string{"default", "high-contrast", "minimal"}
}

// Styles contains all the styled components
type Styles struct {
	Theme Theme

	// Page chrome
	Brand     lipgloss.Style
	NavItem   lipgloss.Style
	NavActive lipgloss.Style
	Menu      lipgloss.Style

	// Content
	Title    lipgloss.Style
	Body     lipgloss.Style
	Entering lipgloss.Style
	Muted    lipgloss.Style
	Card     lipgloss.Style
	Hidden   lipgloss.Style

	// Carousel
	Slide     lipgloss.Style
	DotActive lipgloss.Style

	// Form
	Field        lipgloss.Style
	FieldFocused lipgloss.Style
	FieldError   lipgloss.Style
	Button       lipgloss.Style
	ButtonBusy   lipgloss.Style
	Toast        lipgloss.Style

	// Status
	Error lipgloss.Style
	Help  lipgloss.Style
}

// GetStyles builds the styles for the current theme
func GetStyles() *Styles {
	theme := GetTheme()

	return &Styles{
		Theme: theme,

		Brand: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		NavItem: lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Padding(0, 1),

		NavActive: lipgloss.NewStyle().
			Background(theme.Selected).
			Foreground(theme.Primary).
			Padding(0, 1).
			Bold(true),

		Menu: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Entering: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Faint(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Accent).
			Padding(0, 1).
			Width(28),

		Hidden: lipgloss.NewStyle().
			Border(lipgloss.HiddenBorder()).
			Foreground(theme.Muted).
			Padding(0, 1).
			Width(28),

		Slide: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Info).
			Padding(0, 2),

		DotActive: lipgloss.NewStyle().
			Foreground(theme.Info).
			Bold(true),

		Field: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1).
			Width(40),

		FieldFocused: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(theme.Primary).
			Padding(0, 1).
			Width(40),

		FieldError: lipgloss.NewStyle().
			Foreground(theme.Error),

		Button: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#111827"}).
			Padding(0, 2).
			Bold(true),

		ButtonBusy: lipgloss.NewStyle().
			Background(theme.Muted).
			Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#111827"}).
			Padding(0, 2),

		Toast: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Success).
			Foreground(theme.Success).
			Padding(0, 1).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}
