// Package core provides order-stable state cells for function components
// and the scheduler that re-renders them.
//
// A Component is a plain function that receives a *Hooks handle for the
// duration of one render pass. Behavior units such as UseState claim cells
// through that handle. Cells have no names: a cell is identified by the
// position of the call that claimed it, so a component must make the same
// calls in the same order on every pass.
//
// # State Cells
//
//	func Counter(h *core.Hooks) CounterView {
//	    count := core.UseState(h, 0)
//	    return CounterView{
//	        Label:     fmt.Sprintf("Count: %d", count.Value()),
//	        Increment: func() { count.Update(func(c int) int { return c + 1 }) },
//	    }
//	}
//
// Set and Update never modify a cell directly. They queue an update and ask
// the Scheduler for a render pass; queued updates are applied in request
// order right before that pass runs.
//
// # Scheduling
//
//	s := core.NewScheduler()
//	counter, err := core.Mount(s, "Counter", Counter)
//	counter.Output().Increment()
//	counter.Output().Increment()
//	err = s.Flush() // one pass, count is 2
//
// Repeated requests for an instance that is already queued coalesce into a
// single pass.
//
// # Consistency
//
// If a pass claims a different number of cells than the previous pass, or a
// cell of a different type at some position, the scheduler reports an
// *errors.ConsistencyError, marks the instance failed and stops flushing.
// The usual cause is a behavior unit called inside an if, a loop, or after
// an early return.
//
// # Threading
//
// Nothing in this package is thread-safe. A Loop owns a Scheduler on one
// goroutine and accepts callbacks from any goroutine through Dispatch.
package core
