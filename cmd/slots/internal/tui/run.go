package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

type erroring interface {
	tea.Model
	Err() error
}

// Run starts a bubbletea program for model and returns the error that stopped
// it, if any.
func Run(ctx context.Context, model erroring, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(erroring); ok {
		return m.Err()
	}
	return nil
}
