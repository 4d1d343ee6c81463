// Package demo holds the components rendered by the slots CLI.
package demo

import (
	"github.com/go-drift/slots/pkg/core"
	"github.com/go-drift/slots/pkg/hooks"
)

// TodoView is the output of TodoApp.
type TodoView struct {
	Title string
	hooks.TodoList

	// Selected is the highlighted row, clamped to the item range; -1 when
	// the list is empty.
	Selected       int
	MoveUp         func()
	MoveDown       func()
	RemoveSelected func()
}

// SelectedItem returns the highlighted record.
func (v TodoView) SelectedItem() (hooks.Todo, bool) {
	if v.Selected < 0 || v.Selected >= len(v.Items) {
		return hooks.Todo{}, false
	}
	return v.Items[v.Selected], true
}

// TodoApp returns a component that manages a todo list with a cursor.
func TodoApp(title string, opts ...hooks.TodoOption) core.Component[TodoView] {
	return func(h *core.Hooks) TodoView {
		todos := hooks.UseTodoList(h, opts...)
		cursor := core.UseState(h, 0)

		last := len(todos.Items) - 1
		selected := -1
		if last >= 0 {
			selected = min(max(cursor.Value(), 0), last)
		}

		var selectedID string
		if selected >= 0 {
			selectedID = todos.Items[selected].ID
		}

		return TodoView{
			Title:    title,
			TodoList: todos,
			Selected: selected,
			MoveUp: func() {
				cursor.Set(max(selected-1, 0))
			},
			MoveDown: func() {
				cursor.Set(min(selected+1, max(last, 0)))
			},
			RemoveSelected: func() {
				if selectedID != "" {
					todos.RemoveItem(selectedID)
				}
			},
		}
	}
}
