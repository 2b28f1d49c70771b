package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yildizm/pagekit/internal/config"
	"github.com/yildizm/pagekit/internal/controller"
	"github.com/yildizm/pagekit/internal/formatter"
	"github.com/yildizm/pagekit/internal/journal"
	"github.com/yildizm/pagekit/internal/logger"
	"github.com/yildizm/pagekit/internal/scheduler"
)

var (
	replayOutputFile string
	replayStrict     bool
)

func newReplayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay [script]",
		Short: "Replay a scripted or recorded session",
		Long: `Replay a session script (.yaml, .toml) or a recorded journal (.log, .jsonl)
against a fresh page session on a virtual clock and print the transcript.

Waits in the script advance the clock and fire any timers that fall due, so
the transcript is the same on every run.

Examples:
  pagekit replay contact.yaml
  pagekit replay --output json session.jsonl
  pagekit replay --strict --output-file report.md -o markdown contact.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: runReplay,
	}

	cmd.Flags().StringVar(&replayOutputFile, "output-file", "", "save output to file instead of stdout")
	cmd.Flags().BoolVar(&replayStrict, "strict", false, "fail when an event is rejected or the surface is inconsistent")

	return cmd
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}
	log := newLogger("replay")

	script, err := journal.Load(args[0])
	if err != nil {
		return err
	}
	log.DebugWithFields("Loaded script", []logger.Field{logger.F("name", script.Name), logger.F("steps", len(script.Steps))})

	transcript, err := replayScript(cfg, script, log)
	if err != nil {
		return err
	}

	if err := writeTranscript(cmd.OutOrStdout(), cfg, transcript, replayOutputFile); err != nil {
		return err
	}

	if replayStrict && (transcript.Errors() > 0 || len(transcript.Violations) > 0) {
		return fmt.Errorf("replay %s: %d rejected events, %d violations", script.Name, transcript.Errors(), len(transcript.Violations))
	}
	return nil
}

// replayScript runs script against a new session on a virtual clock
func replayScript(cfg *config.Config, script *journal.Script, log *logger.Logger) (*journal.Transcript, error) {
	clock := scheduler.NewVirtual()
	sess, err := controller.New(cfg.SessionOptions(), clock, log)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return journal.Replay(sess, clock, script)
}

// writeTranscript formats t with the selected output format to path, or to w when path is empty
func writeTranscript(w io.Writer, cfg *config.Config, t *journal.Transcript, path string) error {
	color := path == "" && useColor(cfg)
	f, err := formatter.New(getOutputFormat(cfg), color)
	if err != nil {
		return err
	}

	out, err := f.Format(t)
	if err != nil {
		return fmt.Errorf("failed to format transcript: %w", err)
	}

	if path != "" {
		if err := os.WriteFile(path, out, 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if isVerbose() {
			fmt.Fprintf(os.Stderr, "Output written to %s\n", path)
		}
		return nil
	}

	_, err = w.Write(out)
	return err
}
