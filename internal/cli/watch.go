package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yildizm/pagekit/internal/config"
	"github.com/yildizm/pagekit/internal/emoji"
	"github.com/yildizm/pagekit/internal/journal"
	"github.com/yildizm/pagekit/internal/logger"
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [script]",
		Short: "Replay a script every time it changes",
		Long: `Watch a session script or journal and replay it whenever the file is written.

Uses file system notifications to detect changes. The script is replayed once
at startup. Press Ctrl+C to stop watching.

Examples:
  pagekit watch contact.yaml
  pagekit watch -o markdown session.jsonl`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	filename := args[0]

	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}
	log := newLogger("watch")

	watcher, cleanup, err := setupFileWatcher(filename, log)
	if err != nil {
		return err
	}
	defer cleanup()

	out := cmd.OutOrStdout()
	replayFile(out, cfg, filename, log)

	return runWatchLoop(watcher, filename, func() { replayFile(out, cfg, filename, log) }, log)
}

// replayFile reports load and replay failures instead of stopping the watch
func replayFile(w io.Writer, cfg *config.Config, filename string, log *logger.Logger) {
	script, err := journal.Load(filename)
	if err != nil {
		fmt.Fprintf(w, "%s %v\n", emoji.GetEmoji("error"), err)
		return
	}

	transcript, err := replayScript(cfg, script, log)
	if err != nil {
		fmt.Fprintf(w, "%s %v\n", emoji.GetEmoji("error"), err)
		return
	}

	if err := writeTranscript(w, cfg, transcript, ""); err != nil {
		log.Warn("Failed to write transcript: %v", err)
	}
	fmt.Fprintf(w, "\n%s Watching %s...\n", emoji.GetEmoji("watching"), filename)
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher, log *logger.Logger) {
	if err := watcher.Close(); err != nil {
		log.Debug("failed to close watcher: %v", err)
	}
}

// cleanupFile safely closes file with error logging
func cleanupFile(file *os.File) {
	if err := file.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close file: %v\n", err)
	}
}

// setupFileWatcher watches the script's directory so editors that replace
// the file on save are still seen
func setupFileWatcher(filename string, log *logger.Logger) (*fsnotify.Watcher, func(), error) {
	if err := validateWatchFilePath(filename); err != nil {
		return nil, nil, fmt.Errorf("invalid file path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(filepath.Clean(filename))); err != nil {
		cleanupWatcher(watcher, log)
		return nil, nil, fmt.Errorf("failed to watch file: %w", err)
	}

	log.Debug("Watching file: %s", filename)
	return watcher, func() { cleanupWatcher(watcher, log) }, nil
}

// runWatchLoop runs the main watch loop with signal handling
func runWatchLoop(watcher *fsnotify.Watcher, target string, onChange func(), log *logger.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	target = filepath.Clean(target)

	for {
		select {
		case <-ctx.Done():
			log.Debug("Received interrupt signal, stopping...")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if isScriptChange(event, target) {
				onChange()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.Warn("Watcher error: %v", err)
		}
	}
}

// isScriptChange reports writes and re-creations of the watched script
func isScriptChange(event fsnotify.Event, target string) bool {
	if filepath.Clean(event.Name) != target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// validateWatchFilePath validates that a file path is safe to watch
func validateWatchFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch directory, must be a file")
	}

	return nil
}
