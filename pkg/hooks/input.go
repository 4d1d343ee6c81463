package hooks

import "github.com/go-drift/slots/pkg/core"

// Input is a controlled text field value.
type Input struct {
	// Value is the committed text.
	Value string
	// OnChange requests a new text.
	OnChange func(text string)
	// Clear requests the empty string.
	Clear func()

	cell core.State[string]
}

// Current returns the committed text at call time, which may be newer than
// Value if the instance re-rendered after the Input was handed out.
func (in Input) Current() string {
	return in.cell.Value()
}

// UseInput claims one string cell.
func UseInput(h *core.Hooks, initial string) Input {
	cell := core.UseState(h, initial)
	return Input{
		Value:    cell.Value(),
		OnChange: cell.Set,
		Clear:    func() { cell.Set("") },
		cell:     cell,
	}
}
