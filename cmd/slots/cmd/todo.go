package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-drift/slots/cmd/slots/internal/demo"
	"github.com/go-drift/slots/cmd/slots/internal/tui"
	"github.com/go-drift/slots/pkg/core"
	"github.com/go-drift/slots/pkg/hooks"
)

func (c *cli) newTodoCommand() *cobra.Command {
	var seed []string
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Run the interactive todo list",
		Long: `Run the todo list demo in the terminal.

Type to edit the input, Enter to add it, up/down to select a row and
ctrl+d to remove it. Initial items come from todo.items in slots.yaml and
from --seed.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{ownsTerminal: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := c.interactiveLogger()
			s := core.NewScheduler(append(c.cfg.SchedulerOptions(), core.WithLogger(logger))...)

			items := append(append([]string(nil), c.cfg.TodoItems...), seed...)
			app, err := core.Mount(s, "TodoApp", demo.TodoApp(c.cfg.AppName, hooks.WithSeed(items...)))
			if err != nil {
				return err
			}
			defer s.Unmount(app)

			logger.Info("todo demo started", zap.Int("seed", len(items)))
			return tui.Run(cmd.Context(), tui.NewTodoModel(s, app, logger), tea.WithAltScreen())
		},
	}
	cmd.Flags().StringSliceVar(&seed, "seed", nil, "Initial items, in addition to todo.items")
	return cmd
}
