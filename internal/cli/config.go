package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yildizm/pagekit/internal/config"
	"github.com/yildizm/pagekit/internal/emoji"
)

// newConfigCommand creates the config command with subcommands
func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pagekit configuration",
		Long: `Manage pagekit configuration files and settings.

The config command provides subcommands for initializing, viewing,
validating, and locating configuration files.`,
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigPathCommand())

	return configCmd
}

// newConfigInitCommand creates the config init subcommand
func newConfigInitCommand() *cobra.Command {
	var (
		outputPath string
		force      bool
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration file",
		Long: `Initialize a new pagekit configuration file with default values.

The file format follows the extension: .yaml/.yml for YAML, .toml for TOML.`,
		Example: `  # Create config in current directory
  pagekit config init

  # Create a TOML config at a specific path
  pagekit config init --output ~/.config/pagekit/config.toml

  # Overwrite existing config
  pagekit config init --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputPath == "" {
				outputPath = ".pagekit.yaml"
			}

			if err := config.WriteFile(config.DefaultConfig(), outputPath, force); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Configuration file created at: %s\n", emoji.GetEmoji("success"), outputPath)
			return nil
		},
	}

	initCmd.Flags().StringVar(&outputPath, "output-path", "", "output path for config file (default: .pagekit.yaml)")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing config file")

	return initCmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	var (
		format   string
		defaults bool
	)

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the current effective configuration after loading from all sources.

Shows the merged configuration from defaults, config files, and environment
variable overrides. With --defaults prints the commented sample configuration.`,
		Example: `  # Show config in YAML format
  pagekit config show

  # Show config in TOML format
  pagekit config show --format toml

  # Show config from specific file
  pagekit config show --config /path/to/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if defaults {
				data, err := config.SampleConfig()
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			cfg, err := GetGlobalConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			var data []byte
			switch format {
			case "json":
				data, err = json.MarshalIndent(cfg, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal config to JSON: %w", err)
				}
				data = append(data, '\n')
			case "yaml", "toml":
				data, err = config.Marshal(cfg, format)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported format: %s (use yaml, toml or json)", format)
			}

			_, err = out.Write(data)
			return err
		},
	}

	showCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, toml, json)")
	showCmd.Flags().BoolVar(&defaults, "defaults", false, "show the commented default configuration")

	return showCmd
}

// newConfigValidateCommand creates the config validate subcommand
func newConfigValidateCommand() *cobra.Command {
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validate a pagekit configuration file for syntax and semantic errors.

Checks the configuration for:
- Valid YAML or TOML syntax and known keys
- Unique section, card and image ids
- Known form fields and themes
- Positive timings`,
		Example: `  # Validate current config
  pagekit config validate

  # Validate specific config file
  pagekit config validate --config /path/to/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := GetGlobalConfig()
			if err != nil {
				fmt.Fprintf(out, "%s Configuration validation failed:\n", emoji.GetEmoji("error"))
				fmt.Fprintf(out, "   %v\n", err)
				return err
			}

			fmt.Fprintf(out, "%s Configuration is valid\n", emoji.GetEmoji("success"))
			fmt.Fprintf(out, "%s Configuration summary:\n", emoji.GetEmoji("info"))
			fmt.Fprintf(out, "   Version: %s\n", cfg.Version)
			fmt.Fprintf(out, "   Site: %s\n", cfg.Site.Title)
			fmt.Fprintf(out, "   Sections: %d configured\n", len(cfg.Site.Sections))
			fmt.Fprintf(out, "   Form Fields: %d configured\n", len(cfg.Form.Fields))
			fmt.Fprintf(out, "   Slides: %d every %s\n", len(cfg.Slider.Slides), cfg.Slider.Interval)
			fmt.Fprintf(out, "   Theme: %s\n", cfg.UI.Theme)

			return nil
		},
	}

	return validateCmd
}

// newConfigPathCommand creates the config path subcommand
func newConfigPathCommand() *cobra.Command {
	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file search paths",
		Long: `Display the list of paths pagekit searches for configuration files.

Shows the search order and indicates which files exist.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Configuration file search paths (in priority order):")
			fmt.Fprintln(out)

			priority := []string{"Highest", "Medium", "Lowest"}
			for i, path := range config.GetConfigPaths() {
				exists := " (not found)"
				if fileExists(path) {
					exists = " " + emoji.GetEmoji("success") + " (exists)"
				}

				fmt.Fprintf(out, "  %d. %s%s\n", i+1, path, exists)
				if i < len(priority) {
					fmt.Fprintf(out, "     Priority: %s\n", priority[i])
				}
				fmt.Fprintln(out)
			}

			if currentConfig, found := config.FindConfigFile(); found {
				fmt.Fprintf(out, "Current config file: %s\n", currentConfig)
			} else {
				fmt.Fprintln(out, "No config file found, using defaults")
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Environment variables with PAGEKIT_ prefix will override file settings")
		},
	}

	return pathCmd
}

// Helper function to check if file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
