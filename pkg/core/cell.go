package core

import "reflect"

// cell is one slot of an instance's arena. Its identity is its index.
type cell struct {
	typ   reflect.Type
	value any
}

// State is a handle to one cell of a mounted instance. It is a small value
// that event handlers can capture by value; it stays valid until the
// instance unmounts, after which reads return the zero value and writes are
// discarded.
//
// State is NOT thread-safe. It must only be used from the thread that owns
// the scheduler. From other goroutines, go through Loop.Dispatch:
//
//	go func() {
//	    result := fetch()
//	    loop.Dispatch(func() {
//	        data.Set(result)
//	    })
//	}()
type State[T any] struct {
	inst  *instanceBase
	index int
}

// Value returns the committed value of the cell. Updates requested with Set
// or Update become visible after the next render pass begins.
func (s State[T]) Value() T {
	var zero T
	if s.inst == nil || s.index >= len(s.inst.cells) {
		return zero
	}
	v, ok := s.inst.cells[s.index].value.(T)
	if !ok {
		return zero
	}
	return v
}

// Set requests that the cell be replaced with value and schedules a render.
// Several Sets before the next pass collapse to the last one.
func (s State[T]) Set(value T) {
	if s.inst == nil {
		return
	}
	s.inst.requestUpdate(s.index, func(any) any { return value })
}

// Update requests that transform be applied to the cell and schedules a
// render. Updates queued before the next pass are applied in request order,
// each receiving the result of the previous one.
func (s State[T]) Update(transform func(T) T) {
	if s.inst == nil || transform == nil {
		return
	}
	s.inst.requestUpdate(s.index, func(prev any) any {
		v, _ := prev.(T)
		return transform(v)
	})
}

// Index returns the cell position within its instance.
func (s State[T]) Index() int {
	return s.index
}

// Ref is a mutable box stored in a cell. Unlike State, writes are immediate
// and never schedule a render pass.
type Ref[T any] struct {
	Current T
}

func (r *Ref[T]) current() any {
	return r.Current
}
