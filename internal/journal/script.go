// Package journal loads event scripts and recorded session journals and
// replays them against a session on a virtual clock.
package journal

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/yildizm/pagekit/internal/common"
)

// Step is either a wait on the virtual clock or one event
type Step struct {
	Wait  time.Duration `json:"wait,omitempty"`
	Event *common.Event `json:"event,omitempty"`
}

// Script is an ordered list of steps
type Script struct {
	Name string `json:"name,omitempty"`

	// Settle is extra virtual time run after the last step so pending timers fire
	Settle time.Duration `json:"settle,omitempty"`
	Steps  []Step        `json:"steps"`
}

// rawStep is the file form of a step: an inline event, a text event under do,
// or a wait duration
type rawStep struct {
	common.Event `yaml:",inline"`
	Do           string `yaml:"do,omitempty" toml:"do"`
	Wait         string `yaml:"wait,omitempty" toml:"wait"`
}

type rawScript struct {
	Name   string    `yaml:"name" toml:"name"`
	Settle string    `yaml:"settle,omitempty" toml:"settle"`
	Events []rawStep `yaml:"events" toml:"events"`
}

// ParseScriptYAML decodes a YAML script
func ParseScriptYAML(data []byte) (*Script, error) {
	var raw rawScript
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, common.NewInvalidInputError("failed to parse YAML script", err)
	}
	return raw.compile()
}

// ParseScriptTOML decodes a TOML script using [[events]] tables
func ParseScriptTOML(data []byte) (*Script, error) {
	var raw rawScript
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, common.NewInvalidInputError("failed to parse TOML script", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, common.NewInvalidInputError(fmt.Sprintf("unknown script keys: %v", undecoded), nil)
	}
	return raw.compile()
}

func (r rawScript) compile() (*Script, error) {
	s := &Script{Name: r.Name, Steps: make([]Step, 0, len(r.Events))}

	if r.Settle != "" {
		d, err := parseWait(r.Settle)
		if err != nil {
			return nil, err
		}
		s.Settle = d
	}

	for i, rs := range r.Events {
		step, err := rs.compile()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		s.Steps = append(s.Steps, step)
	}
	return s, nil
}

func (r rawStep) compile() (Step, error) {
	set := 0
	for _, present := range []bool{r.Type != "", r.Do != "", r.Wait != ""} {
		if present {
			set++
		}
	}
	if set != 1 {
		return Step{}, common.NewInvalidInputError("step needs exactly one of type, do or wait", nil)
	}

	switch {
	case r.Wait != "":
		d, err := parseWait(r.Wait)
		if err != nil {
			return Step{}, err
		}
		return Step{Wait: d}, nil
	case r.Do != "":
		ev, err := common.ParseEvent(r.Do)
		if err != nil {
			return Step{}, err
		}
		return Step{Event: &ev}, nil
	default:
		// round-trip through the text form so inline events get the same checks
		ev, err := common.ParseEvent(r.Event.String())
		if err != nil {
			return Step{}, err
		}
		return Step{Event: &ev}, nil
	}
}

func parseWait(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, common.NewInvalidInputError(fmt.Sprintf("invalid duration %q", s), err)
	}
	if d < 0 {
		return 0, common.NewInvalidInputError(fmt.Sprintf("negative duration %q", s), nil)
	}
	return d, nil
}

// Load reads a script or a recorded journal, choosing the decoder by extension.
// Journals (.log, .jsonl, .ndjson) are parsed with format detection.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var s *Script
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		s, err = ParseScriptYAML(data)
	case ".toml":
		s, err = ParseScriptTOML(data)
	case ".log", ".jsonl", ".ndjson", ".txt":
		s, err = ParseJournal(string(data), FormatAuto)
	default:
		return nil, common.NewInvalidInputError(fmt.Sprintf("unsupported script extension %q", filepath.Ext(path)), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}
