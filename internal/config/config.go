package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/pagekit/internal/common"
	"github.com/yildizm/pagekit/internal/controller"
	"github.com/yildizm/pagekit/internal/form"
)

// Config holds the complete application configuration
type Config struct {
	Version string       `yaml:"version" json:"version" toml:"version"`
	Site    SiteConfig   `yaml:"site" json:"site" toml:"site"`
	Form    FormConfig   `yaml:"form" json:"form" toml:"form"`
	Slider  SliderConfig `yaml:"slider" json:"slider" toml:"slider"`
	Timing  TimingConfig `yaml:"timing" json:"timing" toml:"timing"`
	Output  OutputConfig `yaml:"output" json:"output" toml:"output"`
	UI      UIConfig     `yaml:"ui" json:"ui" toml:"ui"`
}

// SiteConfig describes the pages and navigation
type SiteConfig struct {
	Title          string          `yaml:"title" json:"title" toml:"title"`
	Sections       []SectionConfig `yaml:"sections" json:"sections" toml:"sections"`
	DefaultSection string          `yaml:"default_section" json:"default_section" toml:"default_section"`
	CTATarget      string          `yaml:"cta_target" json:"cta_target" toml:"cta_target"`
	MenuBreakpoint int             `yaml:"menu_breakpoint" json:"menu_breakpoint" toml:"menu_breakpoint"` // widths above this close the mobile menu
}

// SectionConfig is one page section with its content
type SectionConfig struct {
	ID     string        `yaml:"id" json:"id" toml:"id"`
	Title  string        `yaml:"title" json:"title" toml:"title"`
	Body   string        `yaml:"body,omitempty" json:"body,omitempty" toml:"body"`
	Cards  []CardConfig  `yaml:"cards,omitempty" json:"cards,omitempty" toml:"cards"`
	Images []ImageConfig `yaml:"images,omitempty" json:"images,omitempty" toml:"images"`
}

// CardConfig is a card revealed the first time it scrolls into view
type CardConfig struct {
	ID    string `yaml:"id" json:"id" toml:"id"`
	Title string `yaml:"title" json:"title" toml:"title"`
	Body  string `yaml:"body,omitempty" json:"body,omitempty" toml:"body"`
}

// ImageConfig is a lazily loaded image
type ImageConfig struct {
	ID  string `yaml:"id" json:"id" toml:"id"`
	Src string `yaml:"src" json:"src" toml:"src"`
	Alt string `yaml:"alt,omitempty" json:"alt,omitempty" toml:"alt"`
}

// FormConfig lists the contact form fields present on the page
type FormConfig struct {
	Fields []string `yaml:"fields" json:"fields" toml:"fields"`
}

// SliderConfig configures the carousel
type SliderConfig struct {
	Slides          []SlideConfig `yaml:"slides" json:"slides" toml:"slides"`
	Interval        time.Duration `yaml:"interval" json:"interval" toml:"interval"`
	ResetOnNavigate bool          `yaml:"reset_on_navigate" json:"reset_on_navigate" toml:"reset_on_navigate"`
}

// SlideConfig is one carousel slide
type SlideConfig struct {
	Caption string `yaml:"caption" json:"caption" toml:"caption"`
	Image   string `yaml:"image,omitempty" json:"image,omitempty" toml:"image"`
}

// TimingConfig holds the delays of timed UI transitions
type TimingConfig struct {
	Transition     time.Duration `yaml:"transition" json:"transition" toml:"transition"`
	SuccessMessage time.Duration `yaml:"success_message" json:"success_message" toml:"success_message"`
	SubmitLock     time.Duration `yaml:"submit_lock" json:"submit_lock" toml:"submit_lock"`
}

// OutputConfig configures report formatting
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format" toml:"default_format"` // text|json|markdown|csv
	ColorMode     string `yaml:"color_mode" json:"color_mode" toml:"color_mode"`             // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose" toml:"verbose"`
}

// UIConfig configures the terminal host
type UIConfig struct {
	Theme string `yaml:"theme" json:"theme" toml:"theme"` // default|high-contrast|minimal
	// Width reported to the session as the initial viewport width
	Width int `yaml:"width" json:"width" toml:"width"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Site: SiteConfig{
			Title: "Northwind Studio",
			Sections: []SectionConfig{
				{
					ID:    string(common.SectionHome),
					Title: "Home",
					Body:  "We design and build fast, friendly websites for small teams.",
					Images: []ImageConfig{
						{ID: "hero", Src: "images/hero.jpg", Alt: "Studio workspace"},
					},
				},
				{
					ID:    string(common.SectionAbout),
					Title: "About",
					Body:  "A small studio of designers and engineers working remotely since 2015.",
				},
				{
					ID:    string(common.SectionServices),
					Title: "Services",
					Body:  "Everything from a first sketch to a site that runs itself.",
					Cards: []CardConfig{
						{ID: "card-design", Title: "Design", Body: "Brand, layout and content that reads well on any screen."},
						{ID: "card-build", Title: "Development", Body: "Static sites and small web apps built to last."},
						{ID: "card-care", Title: "Care", Body: "Hosting, updates and monitoring after launch."},
					},
				},
				{
					ID:    string(common.SectionContact),
					Title: "Contact",
					Body:  "Tell us about your project and we will get back to you.",
				},
			},
			DefaultSection: string(common.SectionHome),
			CTATarget:      string(common.SectionContact),
			MenuBreakpoint: 768,
		},
		Form: FormConfig{
			Fields: fieldNames(common.DefaultFields()),
		},
		Slider: SliderConfig{
			Slides: []SlideConfig{
				{Caption: "Launch week for a local bakery", Image: "images/slide-1.jpg"},
				{Caption: "A booking site for a climbing gym", Image: "images/slide-2.jpg"},
				{Caption: "Docs portal for an open source tool", Image: "images/slide-3.jpg"},
			},
			Interval:        5 * time.Second,
			ResetOnNavigate: false,
		},
		Timing: TimingConfig{
			Transition:     50 * time.Millisecond,
			SuccessMessage: 5 * time.Second,
			SubmitLock:     2 * time.Second,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
		},
		UI: UIConfig{
			Theme: "default",
			Width: 1024,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateSiteConfig(); err != nil {
		return err
	}
	if err := c.validateFormConfig(); err != nil {
		return err
	}
	if err := c.validateSliderConfig(); err != nil {
		return err
	}
	if err := c.validateTimingConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	return c.validateUIConfig()
}

// validateSiteConfig checks sections, their content IDs and navigation targets
func (c *Config) validateSiteConfig() error {
	if len(c.Site.Sections) == 0 {
		return fmt.Errorf("site.sections must not be empty")
	}

	sections := make(map[string]bool, len(c.Site.Sections))
	targets := make(map[string]string)
	for _, s := range c.Site.Sections {
		if strings.TrimSpace(s.ID) == "" {
			return fmt.Errorf("site.sections: section id must not be blank")
		}
		if sections[s.ID] {
			return fmt.Errorf("site.sections: duplicate section %q", s.ID)
		}
		sections[s.ID] = true

		for _, card := range s.Cards {
			if err := claimTarget(targets, card.ID, s.ID); err != nil {
				return err
			}
		}
		for _, img := range s.Images {
			if err := claimTarget(targets, img.ID, s.ID); err != nil {
				return err
			}
			if img.Src == "" {
				return fmt.Errorf("site.sections.%s: image %q has no src", s.ID, img.ID)
			}
		}
	}

	if c.Site.DefaultSection != "" && !sections[c.Site.DefaultSection] {
		return fmt.Errorf("site.default_section %q is not a configured section", c.Site.DefaultSection)
	}
	if c.Site.CTATarget != "" && !sections[c.Site.CTATarget] {
		return fmt.Errorf("site.cta_target %q is not a configured section", c.Site.CTATarget)
	}
	if c.Site.MenuBreakpoint < 0 {
		return fmt.Errorf("site.menu_breakpoint must be non-negative")
	}
	return nil
}

func claimTarget(targets map[string]string, id, section string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("site.sections.%s: card and image ids must not be blank", section)
	}
	if owner, ok := targets[id]; ok {
		return fmt.Errorf("site.sections.%s: target %q already used in %s", section, id, owner)
	}
	targets[id] = section
	return nil
}

// validateFormConfig checks that every field has a validation rule
func (c *Config) validateFormConfig() error {
	rules := form.DefaultRules()
	seen := make(map[string]bool, len(c.Form.Fields))
	for _, f := range c.Form.Fields {
		if _, ok := rules[common.FieldID(f)]; !ok {
			return fmt.Errorf("invalid form field: %s (must be one of: name, email, subject, message)", f)
		}
		if seen[f] {
			return fmt.Errorf("duplicate form field: %s", f)
		}
		seen[f] = true
	}
	return nil
}

func (c *Config) validateSliderConfig() error {
	if c.Slider.Interval < 0 {
		return fmt.Errorf("slider.interval must be non-negative")
	}
	return nil
}

func (c *Config) validateTimingConfig() error {
	if c.Timing.Transition < 0 {
		return fmt.Errorf("timing.transition must be non-negative")
	}
	if c.Timing.SuccessMessage < 0 {
		return fmt.Errorf("timing.success_message must be non-negative")
	}
	if c.Timing.SubmitLock < 0 {
		return fmt.Errorf("timing.submit_lock must be non-negative")
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}

func (c *Config) validateUIConfig() error {
	if c.UI.Theme != "" {
		validThemes := map[string]bool{"default": true, "high-contrast": true, "minimal": true}
		if !validThemes[c.UI.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.UI.Theme)
		}
	}
	if c.UI.Width < 0 {
		return fmt.Errorf("ui.width must be non-negative")
	}
	return nil
}

// SectionIDs returns the configured sections in navigation order
func (c *Config) SectionIDs() []common.Section {
	out := make([]common.Section, 0, len(c.Site.Sections))
	for _, s := range c.Site.Sections {
		out = append(out, common.Section(s.ID))
	}
	return out
}

// FindSection returns the section config with the given id
func (c *Config) FindSection(id common.Section) (SectionConfig, bool) {
	for _, s := range c.Site.Sections {
		if s.ID == string(id) {
			return s, true
		}
	}
	return SectionConfig{}, false
}

// SessionOptions converts the configuration into session options
func (c *Config) SessionOptions() controller.Options {
	opts := controller.DefaultOptions()
	opts.Sections = c.SectionIDs()
	opts.DefaultSection = common.Section(c.Site.DefaultSection)
	opts.CTATarget = common.Section(c.Site.CTATarget)
	opts.MenuBreakpoint = c.Site.MenuBreakpoint

	opts.Fields = make([]common.FieldID, 0, len(c.Form.Fields))
	for _, f := range c.Form.Fields {
		opts.Fields = append(opts.Fields, common.FieldID(f))
	}

	opts.SlideCount = len(c.Slider.Slides)
	opts.SlideInterval = c.Slider.Interval
	opts.ResetOnNavigate = c.Slider.ResetOnNavigate

	opts.TransitionDelay = c.Timing.Transition
	opts.SuccessDuration = c.Timing.SuccessMessage
	opts.SubmitLock = c.Timing.SubmitLock

	opts.RevealTargets = nil
	opts.LazyImages = make(map[string]string)
	for _, s := range c.Site.Sections {
		for _, card := range s.Cards {
			opts.RevealTargets = append(opts.RevealTargets, card.ID)
		}
		for _, img := range s.Images {
			opts.LazyImages[img.ID] = img.Src
		}
	}
	return opts
}

func fieldNames(ids []common.FieldID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}
