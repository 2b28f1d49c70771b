package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.pagekit.yaml",               // Project-specific config (highest priority)
	"~/.config/pagekit/config.yaml", // User config
	"/etc/pagekit/config.yaml",      // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	warn        func(format string, args ...interface{})
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		warn: func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
		},
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.pagekit.yaml
// 4. ~/.config/pagekit/config.yaml
// 5. /etc/pagekit/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if !fileExists(expandedPath) {
				continue
			}
			if err := l.loadFromFile(config, expandedPath); err != nil {
				l.warn("Failed to load config from %s: %v", expandedPath, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile decodes a YAML or TOML file over config. Keys absent from the
// file keep their current values.
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	// decode into a copy so a bad file leaves config untouched
	overlay := *config
	if isTOML(path) {
		if _, err := toml.Decode(string(data), &overlay); err != nil {
			return fmt.Errorf("failed to parse TOML: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &overlay); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	*config = overlay
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Site Config
		"PAGEKIT_SITE_TITLE":           func(v string) error { config.Site.Title = v; return nil },
		"PAGEKIT_SITE_DEFAULT_SECTION": func(v string) error { config.Site.DefaultSection = v; return nil },
		"PAGEKIT_SITE_CTA_TARGET":      func(v string) error { config.Site.CTATarget = v; return nil },
		"PAGEKIT_SITE_MENU_BREAKPOINT": func(v string) error { return parseInt(v, &config.Site.MenuBreakpoint) },

		// Slider Config
		"PAGEKIT_SLIDER_INTERVAL":          func(v string) error { return parseDuration(v, &config.Slider.Interval) },
		"PAGEKIT_SLIDER_RESET_ON_NAVIGATE": func(v string) error { return parseBool(v, &config.Slider.ResetOnNavigate) },

		// Timing Config
		"PAGEKIT_TIMING_TRANSITION":      func(v string) error { return parseDuration(v, &config.Timing.Transition) },
		"PAGEKIT_TIMING_SUCCESS_MESSAGE": func(v string) error { return parseDuration(v, &config.Timing.SuccessMessage) },
		"PAGEKIT_TIMING_SUBMIT_LOCK":     func(v string) error { return parseDuration(v, &config.Timing.SubmitLock) },

		// Output Config
		"PAGEKIT_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"PAGEKIT_OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"PAGEKIT_OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },

		// UI Config
		"PAGEKIT_UI_THEME": func(v string) error { config.UI.Theme = v; return nil },
		"PAGEKIT_UI_WIDTH": func(v string) error { return parseInt(v, &config.UI.Width) },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	// Comma-separated lists
	if fields := os.Getenv("PAGEKIT_FORM_FIELDS"); fields != "" {
		config.Form.Fields = splitList(fields)
	}
	if sections := os.Getenv("PAGEKIT_SITE_SECTIONS"); sections != "" {
		config.Site.Sections = restrictSections(config.Site.Sections, splitList(sections))
	}

	return nil
}

// restrictSections keeps configured content for listed ids and adds bare
// sections for the rest, in the listed order
func restrictSections(existing []SectionConfig, ids []string) []SectionConfig {
	byID := make(map[string]SectionConfig, len(existing))
	for _, s := range existing {
		byID[s.ID] = s
	}

	out := make([]SectionConfig, 0, len(ids))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			out = append(out, s)
			continue
		}
		out = append(out, SectionConfig{ID: id, Title: titleCase(id)})
	}
	return out
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// SampleConfig renders the default configuration as a commented YAML document
func SampleConfig() ([]byte, error) {
	body, err := Marshal(DefaultConfig(), "yaml")
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	b.WriteString("# pagekit configuration\n")
	b.WriteString("# Search order: ./.pagekit.yaml, ~/.config/pagekit/config.yaml, /etc/pagekit/config.yaml\n")
	b.WriteString("# Every key can be overridden with PAGEKIT_<SECTION>_<KEY>, e.g. PAGEKIT_SLIDER_INTERVAL=8s\n\n")
	b.Write(body)
	return b.Bytes(), nil
}

// Marshal encodes a configuration as yaml or toml
func Marshal(cfg *Config, format string) ([]byte, error) {
	switch format {
	case "", "yaml", "yml":
		return yaml.Marshal(cfg)
	case "toml":
		var b bytes.Buffer
		if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
			return nil, fmt.Errorf("failed to encode TOML: %w", err)
		}
		return b.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown config format %s (must be yaml or toml)", format)
	}
}

// WriteFile writes cfg to path in the format implied by its extension.
// Existing files are only replaced when force is set.
func WriteFile(cfg *Config, path string, force bool) error {
	path = expandPath(path)
	if err := validateConfigPath(path); err != nil {
		return fmt.Errorf("invalid config path: %w", err)
	}
	if fileExists(path) && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}

	format := "yaml"
	if isTOML(path) {
		format = "toml"
	}
	data, err := Marshal(cfg, format)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" && ext != ".toml" {
		return fmt.Errorf("config file must have .yaml, .yml or .toml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
