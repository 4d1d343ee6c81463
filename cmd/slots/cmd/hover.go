package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/go-drift/slots/cmd/slots/internal/demo"
	"github.com/go-drift/slots/cmd/slots/internal/tui"
	"github.com/go-drift/slots/pkg/core"
)

func (c *cli) newHoverCommand() *cobra.Command {
	var cards int
	cmd := &cobra.Command{
		Use:   "hover",
		Short: "Run the interactive hover board",
		Long: `Run a row of independent hover cards in the terminal.

Each card is its own component instance with its own hover cell. Move the
mouse over the cards, or use left/right when mouse reporting is unavailable.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{ownsTerminal: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if cards <= 0 {
				return fmt.Errorf("--cards must be positive (got %d)", cards)
			}
			logger := c.interactiveLogger()
			s := core.NewScheduler(append(c.cfg.SchedulerOptions(), core.WithLogger(logger))...)

			board, err := demo.HoverBoard(s, cards)
			defer func() {
				for _, card := range board {
					s.Unmount(card)
				}
			}()
			if err != nil {
				return err
			}

			return tui.Run(cmd.Context(), tui.NewHoverModel(s, board, logger),
				tea.WithAltScreen(),
				tea.WithMouseAllMotion(),
			)
		},
	}
	cmd.Flags().IntVar(&cards, "cards", 4, "Number of cards")
	return cmd
}
