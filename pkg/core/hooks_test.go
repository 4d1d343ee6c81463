package core

import (
	"testing"

	"github.com/go-drift/slots/pkg/errors"
)

// captureHandler records reported errors instead of logging them.
type captureHandler struct {
	errs        []*errors.SlotsError
	panics      []*errors.PanicError
	renders     []*errors.RenderError
	consistency []*errors.ConsistencyError
}

func (h *captureHandler) HandleError(err *errors.SlotsError) { h.errs = append(h.errs, err) }
func (h *captureHandler) HandlePanic(err *errors.PanicError) { h.panics = append(h.panics, err) }
func (h *captureHandler) HandleRenderError(err *errors.RenderError) {
	h.renders = append(h.renders, err)
}
func (h *captureHandler) HandleConsistencyError(err *errors.ConsistencyError) {
	h.consistency = append(h.consistency, err)
}

func useCaptureHandler(t *testing.T) *captureHandler {
	t.Helper()
	h := &captureHandler{}
	errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return h
}

func mustMount[T any](t *testing.T, s *Scheduler, name string, c Component[T]) *Instance[T] {
	t.Helper()
	inst, err := Mount(s, name, c)
	if err != nil {
		t.Fatalf("Mount(%s) failed: %v", name, err)
	}
	return inst
}

func mustFlush(t *testing.T, s *Scheduler) {
	t.Helper()
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
}

func TestUseState_InitialOnlyOnFirstPass(t *testing.T) {
	s := NewScheduler()
	pass := 0
	inst := mustMount(t, s, "Counter", func(h *Hooks) State[int] {
		pass++
		return UseState(h, pass*100)
	})

	if got := inst.Output().Value(); got != 100 {
		t.Errorf("Expected 100, got %d", got)
	}

	s.ScheduleRender(inst)
	mustFlush(t, s)

	if pass != 2 {
		t.Fatalf("Expected 2 passes, got %d", pass)
	}
	if got := inst.Output().Value(); got != 100 {
		t.Errorf("Expected initial value to be ignored on re-render, got %d", got)
	}
}

func TestUseState_SetIsNotSynchronous(t *testing.T) {
	s := NewScheduler()
	inst := mustMount(t, s, "Counter", func(h *Hooks) State[int] {
		return UseState(h, 0)
	})

	count := inst.Output()
	count.Set(5)

	if count.Value() != 0 {
		t.Errorf("Expected value to stay 0 until the next pass, got %d", count.Value())
	}
	if inst.State() != StateDirty {
		t.Errorf("Expected dirty instance, got %s", inst.State())
	}

	mustFlush(t, s)

	if count.Value() != 5 {
		t.Errorf("Expected 5, got %d", count.Value())
	}
	if inst.State() != StateClean {
		t.Errorf("Expected clean instance, got %s", inst.State())
	}
}

func TestUseState_UpdatesComposeInOrder(t *testing.T) {
	s := NewScheduler()
	inst := mustMount(t, s, "Counter", func(h *Hooks) State[int] {
		return UseState(h, 1)
	})

	count := inst.Output()
	count.Set(5)
	count.Update(func(v int) int { return v + 1 })
	count.Update(func(v int) int { return v * 2 })
	mustFlush(t, s)

	if count.Value() != 12 {
		t.Errorf("Expected 12, got %d", count.Value())
	}
}

func TestUseState_LastSetWins(t *testing.T) {
	s := NewScheduler()
	inst := mustMount(t, s, "Label", func(h *Hooks) State[string] {
		return UseState(h, "")
	})

	label := inst.Output()
	label.Set("a")
	label.Set("b")
	label.Set("c")
	mustFlush(t, s)

	if label.Value() != "c" {
		t.Errorf("Expected 'c', got '%s'", label.Value())
	}
	if inst.Version() != 2 {
		t.Errorf("Expected version 2, got %d", inst.Version())
	}
}

func TestUseState_StructType(t *testing.T) {
	type Person struct {
		Name string
		Age  int
	}

	s := NewScheduler()
	inst := mustMount(t, s, "Person", func(h *Hooks) State[Person] {
		return UseState(h, Person{Name: "Alice", Age: 30})
	})

	inst.Output().Update(func(p Person) Person {
		p.Age++
		return p
	})
	mustFlush(t, s)

	if got := inst.Output().Value(); got.Name != "Alice" || got.Age != 31 {
		t.Errorf("Unexpected struct value: %+v", got)
	}
}

func TestUseStateFunc_InitRunsOnce(t *testing.T) {
	s := NewScheduler()
	calls := 0
	inst := mustMount(t, s, "Lazy", func(h *Hooks) State[[]string] {
		return UseStateFunc(h, func() []string {
			calls++
			return []string{"seed"}
		})
	})

	s.ScheduleRender(inst)
	mustFlush(t, s)
	s.ScheduleRender(inst)
	mustFlush(t, s)

	if calls != 1 {
		t.Errorf("Expected init to run once, ran %d times", calls)
	}
	if got := inst.Output().Value(); len(got) != 1 || got[0] != "seed" {
		t.Errorf("Unexpected value: %v", got)
	}
}

func TestUseRef_DoesNotScheduleRender(t *testing.T) {
	s := NewScheduler()
	renders := 0
	inst := mustMount(t, s, "Ref", func(h *Hooks) *Ref[int] {
		renders++
		return UseRef(h, 7)
	})

	ref := inst.Output()
	ref.Current = 8

	if s.NeedsWork() {
		t.Error("Expected Ref writes not to queue a render pass")
	}

	s.ScheduleRender(inst)
	mustFlush(t, s)

	if inst.Output() != ref {
		t.Error("Expected the same Ref on every pass")
	}
	if ref.Current != 8 {
		t.Errorf("Expected 8, got %d", ref.Current)
	}
	if renders != 2 {
		t.Errorf("Expected 2 renders, got %d", renders)
	}
}

type mockDisposable struct {
	disposed int
}

func (m *mockDisposable) Dispose() {
	m.disposed++
}

func TestUseDisposable(t *testing.T) {
	s := NewScheduler()
	created := 0
	inst := mustMount(t, s, "Resource", func(h *Hooks) *mockDisposable {
		return UseDisposable(h, func() *mockDisposable {
			created++
			return &mockDisposable{}
		})
	})

	first := inst.Output()
	s.ScheduleRender(inst)
	mustFlush(t, s)

	if inst.Output() != first {
		t.Error("Expected the resource to survive re-renders")
	}
	if created != 1 {
		t.Errorf("Expected 1 creation, got %d", created)
	}
	if first.disposed != 0 {
		t.Error("Resource should not be disposed while mounted")
	}

	s.Unmount(inst)
	s.Unmount(inst)

	if first.disposed != 1 {
		t.Errorf("Expected resource to be disposed once, got %d", first.disposed)
	}
}

func TestOnUnmount_RunsInReverseOrderOnce(t *testing.T) {
	s := NewScheduler()
	var order []string
	inst := mustMount(t, s, "Cleanup", func(h *Hooks) int {
		h.OnUnmount(func() { order = append(order, "first") })
		h.OnUnmount(func() { order = append(order, "second") })
		return 0
	})

	s.ScheduleRender(inst)
	mustFlush(t, s)
	s.Unmount(inst)

	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Errorf("Expected [second first], got %v", order)
	}
}

func TestOnUnmount_PanicIsReported(t *testing.T) {
	handler := useCaptureHandler(t)
	s := NewScheduler()
	ran := false
	inst := mustMount(t, s, "Cleanup", func(h *Hooks) int {
		h.OnUnmount(func() { ran = true })
		h.OnUnmount(func() { panic("cleanup failed") })
		return 0
	})

	s.Unmount(inst)

	if !ran {
		t.Error("Expected remaining cleanups to run after a panic")
	}
	if len(handler.panics) != 1 {
		t.Errorf("Expected 1 reported panic, got %d", len(handler.panics))
	}
}

func TestHooks_ExpiredHandlePanics(t *testing.T) {
	s := NewScheduler()
	var captured *Hooks
	mustMount(t, s, "Leaky", func(h *Hooks) int {
		captured = h
		UseState(h, 0)
		return 0
	})

	if captured.Active() {
		t.Fatal("Expected handle to expire after the pass")
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Expected panic when using an expired handle")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, errors.ErrNoActivePass) {
			t.Fatalf("Expected ErrNoActivePass, got %v", r)
		}
		var serr *errors.SlotsError
		if !errors.As(err, &serr) || serr.Instance != "Leaky" || serr.Kind != errors.KindNoActivePass {
			t.Errorf("Unexpected error details: %v", r)
		}
	}()
	UseState(captured, 1)
}

func TestHooks_NilHandlePanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, errors.ErrNoActivePass) {
			t.Fatalf("Expected ErrNoActivePass, got %v", r)
		}
	}()
	UseRef[int](nil, 0)
}

func TestHooks_ExpiredHandleInsideRenderIsRenderError(t *testing.T) {
	handler := useCaptureHandler(t)
	s := NewScheduler()
	var stale *Hooks
	inst := mustMount(t, s, "Stale", func(h *Hooks) int {
		if stale != nil {
			UseState(stale, 0)
		}
		stale = h
		return UseState(h, 3).Value()
	})

	s.ScheduleRender(inst)
	mustFlush(t, s)

	if len(handler.renders) != 1 {
		t.Fatalf("Expected 1 render error, got %d", len(handler.renders))
	}
	if !errors.Is(handler.renders[0], errors.ErrNoActivePass) {
		t.Errorf("Expected render error to wrap ErrNoActivePass, got %v", handler.renders[0])
	}
	if inst.Output() != 3 {
		t.Errorf("Expected previous output to be kept, got %d", inst.Output())
	}
}

func TestStateHandle_AfterUnmount(t *testing.T) {
	s := NewScheduler()
	inst := mustMount(t, s, "Gone", func(h *Hooks) State[int] {
		return UseState(h, 9)
	})
	count := inst.Output()
	s.Unmount(inst)

	count.Set(10)

	if count.Value() != 0 {
		t.Errorf("Expected zero value after unmount, got %d", count.Value())
	}
	if s.NeedsWork() {
		t.Error("Expected updates after unmount to be discarded")
	}
}
