package core

import (
	"fmt"
	"reflect"

	"github.com/go-drift/slots/pkg/errors"
)

// Hooks is the render-context handle passed to a component for one render
// pass. Behavior units take it as their first argument and use it to claim
// cells by position. A handle expires when its pass ends; using it afterwards
// panics with an error wrapping errors.ErrNoActivePass.
type Hooks struct {
	inst   *instanceBase
	cursor int
	active bool
}

// Instance returns the debug name of the instance being rendered.
func (h *Hooks) Instance() string {
	if h == nil || h.inst == nil {
		return ""
	}
	return h.inst.name
}

// Active reports whether the handle belongs to a pass that is still running.
func (h *Hooks) Active() bool {
	return h != nil && h.active && h.inst != nil
}

func (h *Hooks) check(op string) {
	if h.Active() {
		return
	}
	err := &errors.SlotsError{
		Op:   op,
		Kind: errors.KindNoActivePass,
		Err:  errors.ErrNoActivePass,
	}
	if h != nil && h.inst != nil {
		err.Instance = h.inst.name
	}
	if DebugMode {
		err.StackTrace = errors.CaptureStack()
	}
	panic(err)
}

// nextCell returns the index of the cell at the cursor and advances it.
// On the first pass the cell is created from initial; on later passes the
// stored cell is reused and must have been created with the same type.
func (h *Hooks) nextCell(op string, typ reflect.Type, initial func() any) int {
	h.check(op)
	b := h.inst
	index := h.cursor
	h.cursor++

	if index < len(b.cells) {
		if stored := b.cells[index].typ; stored != typ {
			b.misbound(index, fmt.Sprintf("%s found a %s cell where it expected %s", op, stored, typ))
		}
		return index
	}
	if b.lastCount >= 0 {
		b.misbound(index, fmt.Sprintf("%s allocated a cell beyond the previous pass of %d cells", op, b.lastCount))
	}
	b.cells = append(b.cells, cell{typ: typ, value: initial()})
	return index
}

// OnUnmount registers cleanup to run when the instance unmounts.
// Cleanups run once, in reverse registration order. Only registrations made
// during the first render pass are kept; later calls are ignored so the
// cleanup list stays as stable as the cell list.
func (h *Hooks) OnUnmount(cleanup func()) {
	h.check("core.OnUnmount")
	if cleanup == nil || h.inst.lastCount >= 0 {
		return
	}
	h.inst.disposers = append(h.inst.disposers, cleanup)
}

// UseState claims the next cell and returns a handle to it.
// initial is only used on the instance's first render pass.
//
// Example:
//
//	func Counter(h *core.Hooks) string {
//	    count := core.UseState(h, 0)
//	    return fmt.Sprintf("Count: %d", count.Value())
//	}
func UseState[T any](h *Hooks, initial T) State[T] {
	index := h.nextCell("core.UseState", reflect.TypeFor[T](), func() any { return initial })
	return State[T]{inst: h.inst, index: index}
}

// UseStateFunc is UseState with a lazily computed initial value.
// init runs once, on the first render pass.
func UseStateFunc[T any](h *Hooks, init func() T) State[T] {
	index := h.nextCell("core.UseStateFunc", reflect.TypeFor[T](), func() any { return init() })
	return State[T]{inst: h.inst, index: index}
}

// UseRef claims the next cell as a mutable box. Writing through the returned
// Ref never schedules a render pass.
func UseRef[T any](h *Hooks, initial T) *Ref[T] {
	index := h.nextCell("core.UseRef", reflect.TypeFor[*Ref[T]](), func() any { return &Ref[T]{Current: initial} })
	return h.inst.cells[index].value.(*Ref[T])
}

// Disposable is implemented by resources that need explicit cleanup.
type Disposable interface {
	Dispose()
}

// UseDisposable creates a resource on the first render pass, returns the same
// resource on every later pass, and disposes it when the instance unmounts.
//
// Example:
//
//	ticker := core.UseDisposable(h, func() *clock.Ticker {
//	    return clock.NewTicker(time.Second)
//	})
func UseDisposable[C Disposable](h *Hooks, create func() C) C {
	ref := UseRef(h, *new(C))
	if h.inst.lastCount < 0 {
		ref.Current = create()
		resource := ref.Current
		h.OnUnmount(resource.Dispose)
	}
	return ref.Current
}
