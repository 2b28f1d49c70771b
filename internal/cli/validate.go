package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yildizm/pagekit/internal/common"
	"github.com/yildizm/pagekit/internal/emoji"
	"github.com/yildizm/pagekit/internal/form"
)

// validateOutput is the JSON shape of a validate run
type validateOutput struct {
	Fields []form.Field `json:"fields"`
	Submit struct {
		Accepted     bool             `json:"accepted"`
		Invalid      []common.FieldID `json:"invalid,omitempty"`
		FirstInvalid common.FieldID   `json:"first_invalid,omitempty"`
	} `json:"submit"`
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate field=value...",
		Short: "Check contact form values against the validation rules",
		Long: `Fill the contact form with the given values, blur every field and
attempt a submission, then report which fields pass.

Fields that are not given stay empty. Unknown field names are rejected.

Examples:
  pagekit validate name=Ann email=ann@example.com subject=Hello "message=Hello there"
  pagekit validate -o json email=not-an-email`,
		Args: cobra.MinimumNArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}
	opts := cfg.SessionOptions()

	f, err := form.New(opts.Fields, form.DefaultRules())
	if err != nil {
		return err
	}

	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return common.NewInvalidInputError(fmt.Sprintf("expected field=value, got %q", arg), nil)
		}
		if _, err := f.Blur(common.FieldID(name), value); err != nil {
			return err
		}
	}

	var out validateOutput
	out.Fields = f.Fields()
	res := f.Submit()
	out.Submit.Accepted = res.Accepted
	out.Submit.Invalid = res.Invalid
	out.Submit.FirstInvalid = res.FirstInvalid

	if getOutputFormat(cfg) == "json" {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		writeValidateText(cmd.OutOrStdout(), out)
	}

	if !res.Accepted {
		return fmt.Errorf("submission rejected: %d invalid field(s)", len(res.Invalid))
	}
	return nil
}

func writeValidateText(w io.Writer, out validateOutput) {
	fmt.Fprintln(w, emoji.GetEmoji("form")+" Contact form")
	for i, field := range out.Fields {
		branch := "├─"
		if i == len(out.Fields)-1 {
			branch = "└─"
		}
		mark := emoji.GetEmoji("success")
		if !field.Valid {
			mark = emoji.GetEmoji("error")
		}
		fmt.Fprintf(w, "%s %s %s: %q\n", branch, mark, field.Name, field.Value)
	}
	fmt.Fprintln(w)

	if out.Submit.Accepted {
		fmt.Fprintln(w, emoji.GetEmoji("rocket")+" Submission accepted")
		return
	}
	fmt.Fprintf(w, "%s Submission rejected, first invalid field: %s\n", emoji.GetEmoji("warning"), out.Submit.FirstInvalid)
}
