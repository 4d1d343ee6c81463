package hooks

import "github.com/go-drift/slots/pkg/core"

// Toggle holds the handlers of a boolean cell.
type Toggle struct {
	// On requests true.
	On func()
	// Off requests false.
	Off func()
	// Flip requests the negation of the value at commit time.
	Flip func()
}

// UseToggle claims one bool cell.
func UseToggle(h *core.Hooks, initial bool) (bool, Toggle) {
	cell := core.UseState(h, initial)
	return cell.Value(), Toggle{
		On:   func() { cell.Set(true) },
		Off:  func() { cell.Set(false) },
		Flip: func() { cell.Update(func(v bool) bool { return !v }) },
	}
}
