package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/go-drift/slots/cmd/slots/internal/demo"
	"github.com/go-drift/slots/pkg/core"
)

// TodoModel is the bubbletea model of the todo demo.
type TodoModel struct {
	scheduler *core.Scheduler
	app       *core.Instance[demo.TodoView]
	input     textinput.Model
	styles    Styles
	logger    *zap.Logger
	err       error
}

// NewTodoModel wraps a mounted TodoApp instance.
func NewTodoModel(s *core.Scheduler, app *core.Instance[demo.TodoView], logger *zap.Logger) TodoModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	styles := DefaultStyles()

	ti := textinput.New()
	ti.Placeholder = "What needs doing? (Enter to add)"
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Width = 48
	ti.PromptStyle = styles.Title
	ti.SetValue(app.Output().Input.Value)
	ti.Focus()

	return TodoModel{
		scheduler: s,
		app:       app,
		input:     ti,
		styles:    styles,
		logger:    logger,
	}
}

// Init starts the cursor blink.
func (m TodoModel) Init() tea.Cmd {
	return textinput.Blink
}

// Err returns the error that stopped the model, if any.
func (m TodoModel) Err() error {
	return m.err
}

// Update handles messages.
func (m TodoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	view := m.app.Output()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			view.Submit()
		case tea.KeyUp:
			view.MoveUp()
		case tea.KeyDown:
			view.MoveDown()
		case tea.KeyCtrlD, tea.KeyDelete:
			view.RemoveSelected()
		default:
			m.input, cmd = m.input.Update(msg)
			if text := m.input.Value(); text != view.Input.Value {
				view.Input.OnChange(text)
			}
		}
	default:
		m.input, cmd = m.input.Update(msg)
	}

	if err := m.scheduler.Flush(); err != nil {
		m.logger.Error("flush failed", zap.Error(err))
		m.err = err
		return m, tea.Quit
	}

	// The component owns the text; the widget only mirrors it.
	if committed := m.app.Output().Input.Value; committed != m.input.Value() {
		m.input.SetValue(committed)
	}
	return m, cmd
}

// View renders the list and the input line.
func (m TodoModel) View() string {
	view := m.app.Output()
	var b strings.Builder

	title := view.Title
	if title == "" {
		title = "Todo"
	}
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("%s (%d)", title, len(view.Items))))
	b.WriteString("\n\n")

	if len(view.Items) == 0 {
		b.WriteString(m.styles.Muted.Render("  nothing to do"))
		b.WriteString("\n")
	}
	for i, item := range view.Items {
		if i == view.Selected {
			b.WriteString(m.styles.Selected.Render("> " + item.Text))
		} else {
			b.WriteString(m.styles.Item.Render(item.Text))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.Muted.Render("up/down select • ctrl+d remove • esc quit"))
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(m.err.Error()))
	}
	b.WriteString("\n")
	return b.String()
}
