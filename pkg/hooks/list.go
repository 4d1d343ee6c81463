package hooks

import (
	"slices"

	"github.com/go-drift/slots/pkg/core"
)

// List is an ordered sequence stored in one cell.
type List[T any] struct {
	// Items is the committed sequence. Treat it as read-only.
	Items []T
	// Append requests item be added at the end.
	Append func(item T)
	// RemoveFirst requests removal of the first item matching match.
	// Nothing happens when no item matches.
	RemoveFirst func(match func(T) bool)
	// Reset requests the sequence be replaced by items.
	Reset func(items []T)
}

// UseList claims one cell holding a slice, initially empty. Every update
// builds a new slice, so updates queued in one turn compose and earlier
// Items values handed out by a pass are never modified.
func UseList[T any](h *core.Hooks) List[T] {
	return listOf(core.UseState[[]T](h, nil))
}

// UseListFunc is UseList with initial items computed on the first pass.
func UseListFunc[T any](h *core.Hooks, init func() []T) List[T] {
	return listOf(core.UseStateFunc(h, init))
}

func listOf[T any](cell core.State[[]T]) List[T] {
	return List[T]{
		Items: cell.Value(),
		Append: func(item T) {
			cell.Update(func(items []T) []T {
				next := make([]T, len(items), len(items)+1)
				copy(next, items)
				return append(next, item)
			})
		},
		RemoveFirst: func(match func(T) bool) {
			cell.Update(func(items []T) []T {
				i := slices.IndexFunc(items, match)
				if i < 0 {
					return items
				}
				return slices.Concat(items[:i], items[i+1:])
			})
		},
		Reset: func(items []T) {
			cell.Set(slices.Clone(items))
		},
	}
}
