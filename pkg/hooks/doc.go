// Package hooks provides reusable behavior units built on core cells.
//
// A behavior unit is a plain function that takes the render handle as its
// first argument, claims a fixed number of cells from it, and returns the
// current values together with handler closures. Units compose by calling
// each other; the cells of a composite are the cells of its callees, in call
// order. None of the units here claims cells conditionally, so they can be
// combined freely as long as the caller also calls them unconditionally.
//
//	func HoverCard(h *core.Hooks) Card {
//	    hovering, handlers := hooks.UseHover(h)
//	    return Card{Highlighted: hovering, OnEnter: handlers.OnPointerEnter, OnLeave: handlers.OnPointerLeave}
//	}
package hooks
