package cmd

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed docs/rules.md
var rulesMarkdown string

func newRulesCommand() *cobra.Command {
	var plain bool
	var width int
	cmd := &cobra.Command{
		Use:               "rules",
		Short:             "Explain the rules components must follow",
		Args:              cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if plain {
				_, err := fmt.Fprint(out, rulesMarkdown)
				return err
			}
			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(width),
			)
			if err != nil {
				return fmt.Errorf("failed to create markdown renderer: %w", err)
			}
			rendered, err := renderer.Render(rulesMarkdown)
			if err != nil {
				return fmt.Errorf("failed to render rules: %w", err)
			}
			_, err = fmt.Fprint(out, rendered)
			return err
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Print the raw markdown")
	cmd.Flags().IntVar(&width, "width", 80, "Word wrap width")
	return cmd
}
