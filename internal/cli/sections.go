package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/pagekit/internal/config"
	"github.com/yildizm/pagekit/internal/emoji"
)

func newSectionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List the configured sections",
		Long: `List the site's sections in navigation order with their cards and images.

The default section and the call-to-action target are marked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := GetGlobalConfig()
			if err != nil {
				return err
			}

			if getOutputFormat(cfg) == "json" {
				data, err := json.MarshalIndent(cfg.Site.Sections, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal JSON: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), renderSections(cfg, useColor(cfg)))
			return nil
		},
	}
}

// renderSections draws the section list as a go-termfmt tree
func renderSections(cfg *config.Config, color bool) string {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !isEmojiDisabled()

	items := make([]termfmt.TreeItem, 0, len(cfg.Site.Sections))
	for i, s := range cfg.Site.Sections {
		var marks []string
		if s.ID == cfg.Site.DefaultSection {
			marks = append(marks, "default")
		}
		if s.ID == cfg.Site.CTATarget {
			marks = append(marks, "cta")
		}
		label := fmt.Sprintf("%d %s", i+1, s.ID)
		value := s.Title
		if len(marks) > 0 {
			value += " (" + strings.Join(marks, ", ") + ")"
		}

		var children []termfmt.TreeItem
		for _, card := range s.Cards {
			children = append(children, termfmt.TreeItem{Label: emoji.GetEmoji("card") + " " + card.ID, Value: card.Title})
		}
		for _, img := range s.Images {
			children = append(children, termfmt.TreeItem{Label: emoji.GetEmoji("image") + " " + img.ID, Value: img.Src})
		}
		if n := len(children); n > 0 {
			children[n-1].Last = true
		}

		items = append(items, termfmt.TreeItem{
			Label:    label,
			Value:    value,
			Children: children,
			Last:     i == len(cfg.Site.Sections)-1,
		})
	}

	var b strings.Builder
	b.WriteString(emoji.GetEmoji("section") + " " + cfg.Site.Title + "\n")
	b.WriteString(termfmt.TreeViewWithOptions(items, opts) + "\n")
	return b.String()
}

func isEmojiDisabled() bool {
	return noEmoji
}
