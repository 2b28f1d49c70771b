package config

import (
	"testing"
	"time"

	"github.com/yildizm/pagekit/internal/common"
	"github.com/yildizm/pagekit/internal/controller"
	"github.com/yildizm/pagekit/internal/scheduler"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", cfg.Version)
	}
	if len(cfg.Site.Sections) != 4 {
		t.Errorf("Expected 4 sections, got %d", len(cfg.Site.Sections))
	}
	if cfg.Site.CTATarget != "contact" {
		t.Errorf("Expected cta target contact, got %s", cfg.Site.CTATarget)
	}
	if cfg.Site.MenuBreakpoint != 768 {
		t.Errorf("Expected menu breakpoint 768, got %d", cfg.Site.MenuBreakpoint)
	}
	if cfg.Slider.Interval != 5*time.Second {
		t.Errorf("Expected slider interval 5s, got %v", cfg.Slider.Interval)
	}
	if cfg.Timing.Transition != 50*time.Millisecond {
		t.Errorf("Expected transition 50ms, got %v", cfg.Timing.Transition)
	}
	if cfg.Timing.SuccessMessage != 5*time.Second {
		t.Errorf("Expected success message 5s, got %v", cfg.Timing.SuccessMessage)
	}
	if cfg.Timing.SubmitLock != 2*time.Second {
		t.Errorf("Expected submit lock 2s, got %v", cfg.Timing.SubmitLock)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "no sections",
			mutate:  func(c *Config) { c.Site.Sections = nil },
			wantErr: true,
			errMsg:  "site.sections must not be empty",
		},
		{
			name: "duplicate section",
			mutate: func(c *Config) {
				c.Site.Sections = append(c.Site.Sections, SectionConfig{ID: "home"})
			},
			wantErr: true,
			errMsg:  `site.sections: duplicate section "home"`,
		},
		{
			name:    "unknown default section",
			mutate:  func(c *Config) { c.Site.DefaultSection = "blog" },
			wantErr: true,
			errMsg:  `site.default_section "blog" is not a configured section`,
		},
		{
			name:    "unknown cta target",
			mutate:  func(c *Config) { c.Site.CTATarget = "pricing" },
			wantErr: true,
			errMsg:  `site.cta_target "pricing" is not a configured section`,
		},
		{
			name: "target used twice",
			mutate: func(c *Config) {
				c.Site.Sections[1].Cards = []CardConfig{{ID: "hero"}}
			},
			wantErr: true,
			errMsg:  `site.sections.about: target "hero" already used in home`,
		},
		{
			name: "image without src",
			mutate: func(c *Config) {
				c.Site.Sections[0].Images = []ImageConfig{{ID: "logo"}}
			},
			wantErr: true,
			errMsg:  `site.sections.home: image "logo" has no src`,
		},
		{
			name:    "unknown form field",
			mutate:  func(c *Config) { c.Form.Fields = []string{"name", "phone"} },
			wantErr: true,
			errMsg:  "invalid form field: phone (must be one of: name, email, subject, message)",
		},
		{
			name:    "negative interval",
			mutate:  func(c *Config) { c.Slider.Interval = -time.Second },
			wantErr: true,
			errMsg:  "slider.interval must be non-negative",
		},
		{
			name:    "negative submit lock",
			mutate:  func(c *Config) { c.Timing.SubmitLock = -time.Second },
			wantErr: true,
			errMsg:  "timing.submit_lock must be non-negative",
		},
		{
			name:    "invalid output format",
			mutate:  func(c *Config) { c.Output.DefaultFormat = "invalid" },
			wantErr: true,
			errMsg:  "invalid output format: invalid (must be one of: json, text, markdown, csv)",
		},
		{
			name:    "invalid color mode",
			mutate:  func(c *Config) { c.Output.ColorMode = "invalid" },
			wantErr: true,
			errMsg:  "invalid color mode: invalid (must be one of: auto, always, never)",
		},
		{
			name:    "invalid theme",
			mutate:  func(c *Config) { c.UI.Theme = "neon" },
			wantErr: true,
			errMsg:  "invalid theme: neon (must be one of: default, high-contrast, minimal)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				} else if err.Error() != tt.errMsg {
					t.Errorf("Expected error message %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestSessionOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Slider.ResetOnNavigate = true
	opts := cfg.SessionOptions()

	if len(opts.Sections) != 4 || opts.Sections[0] != common.SectionHome {
		t.Errorf("Expected 4 sections starting with home, got %v", opts.Sections)
	}
	if opts.SlideCount != 3 {
		t.Errorf("Expected 3 slides, got %d", opts.SlideCount)
	}
	if !opts.ResetOnNavigate {
		t.Error("Expected reset on navigate to carry over")
	}
	if len(opts.RevealTargets) != 3 {
		t.Errorf("Expected 3 reveal targets, got %v", opts.RevealTargets)
	}
	if opts.LazyImages["hero"] != "images/hero.jpg" {
		t.Errorf("Expected hero image, got %v", opts.LazyImages)
	}

	if _, err := controller.New(opts, scheduler.NewVirtual(), nil); err != nil {
		t.Errorf("Expected options to build a session, got %v", err)
	}
}

func TestFindSection(t *testing.T) {
	cfg := DefaultConfig()

	s, ok := cfg.FindSection(common.SectionServices)
	if !ok || len(s.Cards) != 3 {
		t.Errorf("Expected services with 3 cards, got %+v (found=%v)", s, ok)
	}
	if _, ok := cfg.FindSection("blog"); ok {
		t.Error("Expected blog to be missing")
	}
}
