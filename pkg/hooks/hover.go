package hooks

import "github.com/go-drift/slots/pkg/core"

// HoverHandlers are the pointer handlers returned by UseHover. Bind them to
// whatever element should report hovering.
type HoverHandlers struct {
	OnPointerEnter func()
	OnPointerLeave func()
}

// UseHover tracks whether the pointer is over an element. It claims one
// bool cell, initially false. Entering twice without leaving is the same as
// entering once.
func UseHover(h *core.Hooks) (bool, HoverHandlers) {
	hovering, toggle := UseToggle(h, false)
	return hovering, HoverHandlers{
		OnPointerEnter: toggle.On,
		OnPointerLeave: toggle.Off,
	}
}
