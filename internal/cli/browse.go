package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yildizm/pagekit/internal/logger"
	"github.com/yildizm/pagekit/internal/ui"
)

var (
	browseRecord  string
	browseTheme   string
	browseLogFile string
)

func newBrowseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the site in the terminal",
		Long: `Open the configured site in an interactive terminal page.

Number keys and tab switch sections, m toggles the menu, arrows move the
carousel, c jumps to the contact page and f edits the contact form.
With --record every event is written to a journal that replay accepts.

Examples:
  pagekit browse
  pagekit browse --theme high-contrast
  pagekit browse --record session.jsonl`,
		Args: cobra.NoArgs,
		RunE: runBrowse,
	}

	cmd.Flags().StringVar(&browseRecord, "record", "", "record the session journal to this file")
	cmd.Flags().StringVar(&browseTheme, "theme", "", "color theme (default, high-contrast, minimal)")
	cmd.Flags().StringVar(&browseLogFile, "log-file", "", "write session logs to this file")

	return cmd
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}
	if browseTheme != "" {
		cfg.UI.Theme = browseTheme
	}
	if noColor || ui.IsColorDisabled() {
		cfg.UI.Theme = "minimal"
	}

	opts := ui.RunOptions{Logger: logger.Nop()}

	// The alternate screen owns the terminal, so logs only go to a file
	if browseLogFile != "" {
		// #nosec G304 - path is provided by the user
		logFile, err := os.OpenFile(browseLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer cleanupFile(logFile)
		opts.Logger = logger.NewWithWriter("browse", logFile, isVerbose)
	}

	if browseRecord != "" {
		// #nosec G304 - path is provided by the user
		recordFile, err := os.Create(browseRecord)
		if err != nil {
			return fmt.Errorf("failed to create journal: %w", err)
		}
		defer cleanupFile(recordFile)
		opts.Record = recordFile
	}

	return ui.Run(cfg, opts)
}
