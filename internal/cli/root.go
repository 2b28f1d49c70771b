package cli

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/yildizm/pagekit/internal/config"
	"github.com/yildizm/pagekit/internal/emoji"
	"github.com/yildizm/pagekit/internal/logger"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	noEmoji   bool
	outputFmt string
)

var (
	globalConfig    *config.Config
	globalConfigErr error
	configOnce      sync.Once
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pagekit",
		Short: "Interactive page sessions for static marketing sites",
		Long: `pagekit runs the interactivity of a static marketing site: section
navigation, the mobile menu, an auto-advancing carousel and a validated
contact form with a simulated submission.

Browse a site in the terminal, record the session, and replay recorded
journals or scripted sessions on a virtual clock.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Auto-disable emojis on Windows if not explicitly set
			if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
				noEmoji = true
			}
			emoji.SetEmojiDisabled(noEmoji)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "output format (text, json, markdown, csv)")

	rootCmd.AddCommand(newBrowseCommand())
	rootCmd.AddCommand(newReplayCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newSectionsCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pagekit %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// GetGlobalConfig loads the configuration once per process
func GetGlobalConfig() (*config.Config, error) {
	configOnce.Do(func() {
		globalConfig, globalConfigErr = config.NewLoader().LoadConfig(cfgFile)
	})
	return globalConfig, globalConfigErr
}

// Global helpers
func isVerbose() bool {
	if verbose {
		return true
	}
	if globalConfig != nil {
		return globalConfig.Output.Verbose
	}
	return false
}

func getOutputFormat(cfg *config.Config) string {
	if outputFmt != "" {
		return outputFmt
	}
	if cfg != nil && cfg.Output.DefaultFormat != "" {
		return cfg.Output.DefaultFormat
	}
	return "text"
}

// useColor resolves --no-color, NO_COLOR and output.color_mode
func useColor(cfg *config.Config) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	mode := "auto"
	if cfg != nil && cfg.Output.ColorMode != "" {
		mode = cfg.Output.ColorMode
	}
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
}

func newLogger(component string) *logger.Logger {
	return logger.NewWithCallback(component, isVerbose)
}
