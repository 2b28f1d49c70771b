package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fsnotify/fsnotify"

	"github.com/yildizm/pagekit/internal/config"
	"github.com/yildizm/pagekit/internal/emoji"
	"github.com/yildizm/pagekit/internal/formatter"
)

// runCommand executes the root command against a fresh config file
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	configOnce = sync.Once{}
	globalConfig = nil
	globalConfigErr = nil
	t.Cleanup(func() { emoji.SetEmojiDisabled(false) })

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := config.WriteFile(config.DefaultConfig(), cfgPath, false); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	var out bytes.Buffer
	cmd := NewRootCommand("1.2.3", "abc123", "2024-01-01")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfgPath, "--no-emoji", "--no-color"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func writeScript(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write script: %v", err)
	}
	return path
}

const contactScript = `
name: contact
settle: 6s
events:
  - do: cta
  - do: change name Ann
  - do: change email a@b.co
  - do: change subject Hi!
  - do: change message Hello there
  - do: submit
`

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "pagekit 1.2.3 (abc123) built on 2024-01-01") {
		t.Errorf("Unexpected version output: %q", out)
	}
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantErr  bool
		contains []string
	}{
		{
			name:     "all valid",
			args:     []string{"name=Ann", "email=ann@example.com", "subject=Hello", "message=Hello there"},
			contains: []string{"Submission accepted", `name: "Ann"`},
		},
		{
			name:     "bad email",
			args:     []string{"name=Ann", "email=ann@", "subject=Hello", "message=Hello there"},
			wantErr:  true,
			contains: []string{"first invalid field: email"},
		},
		{
			name:     "missing fields",
			args:     []string{"email=ann@example.com"},
			wantErr:  true,
			contains: []string{"first invalid field: name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCommand(t, append([]string{"validate"}, tt.args...)...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("Expected output to contain %q, got:\n%s", want, out)
				}
			}
		})
	}
}

func TestValidateCommandErrors(t *testing.T) {
	if _, err := runCommand(t, "validate", "name"); err == nil {
		t.Error("Expected error for argument without '='")
	}
	if _, err := runCommand(t, "validate", "phone=123"); err == nil {
		t.Error("Expected error for unknown field")
	}
}

func TestValidateCommandJSON(t *testing.T) {
	out, err := runCommand(t, "-o", "json", "validate", "name=A")
	if err == nil {
		t.Fatal("Expected rejected submission to return an error")
	}

	var got validateOutput
	if err := json.Unmarshal([]byte(out[:strings.LastIndex(out, "}")+1]), &got); err != nil {
		t.Fatalf("Failed to decode output: %v\n%s", err, out)
	}
	if got.Submit.Accepted {
		t.Error("Expected submission rejected")
	}
	if len(got.Fields) != 4 {
		t.Errorf("Expected 4 fields, got %d", len(got.Fields))
	}
}

func TestReplayCommand(t *testing.T) {
	script := writeScript(t, "contact.yaml", contactScript)

	out, err := runCommand(t, "-o", "json", "replay", script)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}

	var got formatter.TranscriptOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("Failed to decode transcript: %v\n%s", err, out)
	}
	if got.Summary.Name != "contact" {
		t.Errorf("Expected name contact, got %q", got.Summary.Name)
	}
	if got.Summary.Accepted != 1 {
		t.Errorf("Expected 1 accepted submission, got %d", got.Summary.Accepted)
	}
	if got.Final.Visible != "contact" {
		t.Errorf("Expected contact visible, got %q", got.Final.Visible)
	}
}

func TestReplayCommandStrict(t *testing.T) {
	script := writeScript(t, "bad.yaml", "events:\n  - do: navigate pricing\n")

	if _, err := runCommand(t, "replay", script); err != nil {
		t.Errorf("Expected lenient replay to succeed, got %v", err)
	}
	if _, err := runCommand(t, "replay", "--strict", script); err == nil {
		t.Error("Expected strict replay to fail on a rejected event")
	}
}

func TestReplayCommandOutputFile(t *testing.T) {
	script := writeScript(t, "contact.yaml", contactScript)
	target := filepath.Join(t.TempDir(), "report.md")

	if _, err := runCommand(t, "-o", "markdown", "replay", "--output-file", target, script); err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("Expected report file: %v", err)
	}
	if !strings.HasPrefix(string(data), "# Replay Report: contact") {
		t.Errorf("Unexpected report header: %q", strings.SplitN(string(data), "\n", 2)[0])
	}
}

func TestSectionsCommand(t *testing.T) {
	out, err := runCommand(t, "sections")
	if err != nil {
		t.Fatalf("sections failed: %v", err)
	}
	for _, want := range []string{"Northwind Studio", "1 home", "(default)", "4 contact", "(cta)", "card-design", "hero"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestConfigInitAndShow(t *testing.T) {
	target := filepath.Join(t.TempDir(), "pagekit.toml")

	if _, err := runCommand(t, "config", "init", "--output-path", target); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !fileExists(target) {
		t.Fatal("Expected config file to be created")
	}
	if _, err := runCommand(t, "config", "init", "--output-path", target); err == nil {
		t.Error("Expected init to refuse overwriting without --force")
	}
	if _, err := runCommand(t, "config", "init", "--output-path", target, "--force"); err != nil {
		t.Errorf("Expected --force to overwrite, got %v", err)
	}

	out, err := runCommand(t, "config", "show", "--format", "toml")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, `title = "Northwind Studio"`) {
		t.Errorf("Expected TOML output, got:\n%s", out)
	}

	if _, err := runCommand(t, "config", "show", "--format", "ini"); err == nil {
		t.Error("Expected unsupported format error")
	}
}

func TestConfigValidateCommand(t *testing.T) {
	out, err := runCommand(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate failed: %v", err)
	}
	if !strings.Contains(out, "Configuration is valid") || !strings.Contains(out, "Sections: 4 configured") {
		t.Errorf("Unexpected validate output:\n%s", out)
	}
}

func TestIsScriptChange(t *testing.T) {
	target := filepath.Clean("/tmp/scripts/contact.yaml")

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: target, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: target, Op: fsnotify.Create}, true},
		{"chmod", fsnotify.Event{Name: target, Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: "/tmp/scripts/other.yaml", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isScriptChange(tt.event, target); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestValidateWatchFilePath(t *testing.T) {
	dir := t.TempDir()
	file := writeScript(t, "s.yaml", "events: []\n")

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"regular file", file, false},
		{"empty", "  ", true},
		{"traversal", "../secrets.yaml", true},
		{"directory", dir, true},
		{"missing", filepath.Join(dir, "missing.yaml"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateWatchFilePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
