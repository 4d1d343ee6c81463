package hooks

import (
	"strings"

	"github.com/google/uuid"

	"github.com/go-drift/slots/pkg/core"
)

// Todo is one record of a todo list.
type Todo struct {
	ID   string `yaml:"id" json:"id"`
	Text string `yaml:"text" json:"text"`
}

// TodoList is the state and handlers returned by UseTodoList.
type TodoList struct {
	// Items are the records in insertion order.
	Items []Todo
	// Input is the text field used by Submit.
	Input Input
	// AddItem appends a record with a fresh id. Text that is empty after
	// trimming is ignored.
	AddItem func(text string)
	// RemoveItem removes the record with exactly this id, if present.
	RemoveItem func(id string)
	// Submit adds the current input text and clears the input.
	Submit func()
}

// TodoOption configures UseTodoList.
type TodoOption func(*todoConfig)

type todoConfig struct {
	newID func() string
	seed  []string
}

// WithIDFunc replaces the record id generator. Ids only need to be unique
// within one list.
func WithIDFunc(newID func() string) TodoOption {
	return func(c *todoConfig) {
		if newID != nil {
			c.newID = newID
		}
	}
}

// WithSeed fills a newly mounted list with records for texts. Blank texts
// are skipped. Later passes ignore the option.
func WithSeed(texts ...string) TodoOption {
	return func(c *todoConfig) {
		c.seed = append(c.seed, texts...)
	}
}

// UseTodoList claims two cells: the record list, then the input text.
//
// Example:
//
//	func TodoApp(h *core.Hooks) View {
//	    todos := hooks.UseTodoList(h)
//	    return View{Items: todos.Items, OnSubmit: todos.Submit}
//	}
func UseTodoList(h *core.Hooks, opts ...TodoOption) TodoList {
	cfg := todoConfig{newID: uuid.NewString}
	for _, opt := range opts {
		opt(&cfg)
	}

	list := UseListFunc(h, func() []Todo {
		var items []Todo
		for _, text := range cfg.seed {
			if text = strings.TrimSpace(text); text != "" {
				items = append(items, Todo{ID: cfg.newID(), Text: text})
			}
		}
		return items
	})
	input := UseInput(h, "")

	add := func(text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		list.Append(Todo{ID: cfg.newID(), Text: text})
	}

	return TodoList{
		Items:   list.Items,
		Input:   input,
		AddItem: add,
		RemoveItem: func(id string) {
			list.RemoveFirst(func(t Todo) bool { return t.ID == id })
		},
		Submit: func() {
			add(input.Current())
			input.Clear()
		},
	}
}
