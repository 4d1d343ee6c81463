package testing

import (
	stderrors "errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/go-drift/slots/pkg/core"
	"github.com/go-drift/slots/pkg/errors"
)

// DefaultMaxFrames bounds PumpAndSettle.
const DefaultMaxFrames = 100

// ErrSettleTimeout is returned when PumpAndSettle exceeds its frame budget.
var ErrSettleTimeout = stderrors.New("PumpAndSettle timed out: scheduler did not settle")

// Tester drives a Scheduler the way a host loop would, one frame at a time:
// queued dispatches run first, then pending render passes.
type Tester struct {
	scheduler  *core.Scheduler
	dispatches []func()
	mounted    []core.Element
	recorder   *recorder
	t          testing.TB
}

// NewTester creates a tester with its own scheduler and error recorder.
// Call Cleanup() when done, or use NewTesterWithT() instead.
func NewTester(opts ...core.SchedulerOption) *Tester {
	rec := &recorder{}
	errors.SetHandler(rec)
	return &Tester{
		scheduler: core.NewScheduler(opts...),
		recorder:  rec,
	}
}

// NewTesterWithT creates a tester that auto-cleans up via t.Cleanup() and
// sends scheduler logs to t.Log.
// This is the recommended constructor for tests.
func NewTesterWithT(t testing.TB, opts ...core.SchedulerOption) *Tester {
	t.Helper()
	opts = append([]core.SchedulerOption{core.WithLogger(zaptest.NewLogger(t))}, opts...)
	tester := NewTester(opts...)
	tester.t = t
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts everything mounted through the tester and restores the
// default error handler.
func (t *Tester) Cleanup() {
	for i := len(t.mounted) - 1; i >= 0; i-- {
		t.scheduler.Unmount(t.mounted[i])
	}
	t.mounted = nil
	errors.SetHandler(nil)
}

// Scheduler returns the scheduler driven by the tester.
func (t *Tester) Scheduler() *core.Scheduler {
	return t.scheduler
}

// Mount mounts component and runs its first pass. With a tester created by
// NewTesterWithT, a mount error fails the test.
func Mount[T any](t *Tester, name string, component core.Component[T]) *core.Instance[T] {
	inst, err := core.Mount(t.scheduler, name, component)
	if err != nil && t.t != nil {
		t.t.Helper()
		t.t.Fatalf("mount %s: %v", name, err)
	}
	if inst != nil {
		t.mounted = append(t.mounted, inst)
	}
	return inst
}

// Unmount unmounts e.
func (t *Tester) Unmount(e core.Element) {
	t.scheduler.Unmount(e)
}

// Pump runs a single frame: queued dispatches, then a flush.
func (t *Tester) Pump() error {
	dispatches := t.dispatches
	t.dispatches = nil
	for _, fn := range dispatches {
		fn()
	}
	return t.scheduler.Flush()
}

// MustPump is Pump that fails the test on error.
func (t *Tester) MustPump() {
	if err := t.Pump(); err != nil && t.t != nil {
		t.t.Helper()
		t.t.Fatalf("pump: %v", err)
	}
}

// PumpAndSettle runs frames until there is no queued work.
// Returns ErrSettleTimeout if the scheduler is still busy after maxFrames
// frames; maxFrames <= 0 selects DefaultMaxFrames.
func (t *Tester) PumpAndSettle(maxFrames int) error {
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}
	for i := 0; i < maxFrames; i++ {
		if err := t.Pump(); err != nil {
			return err
		}
		if !t.needsWork() {
			return nil
		}
	}
	return ErrSettleTimeout
}

func (t *Tester) needsWork() bool {
	return t.scheduler.NeedsWork() || len(t.dispatches) > 0
}

// Dispatch queues a callback for the next frame, mirroring core.Loop.Dispatch.
func (t *Tester) Dispatch(fn func()) {
	if fn != nil {
		t.dispatches = append(t.dispatches, fn)
	}
}

// Errors returns everything reported to the error handler since the tester
// was created.
func (t *Tester) Errors() []error {
	return t.recorder.all()
}

// ConsistencyErrors returns the consistency violations reported so far.
func (t *Tester) ConsistencyErrors() []*errors.ConsistencyError {
	return t.recorder.consistency
}

// RenderErrors returns the render errors reported so far.
func (t *Tester) RenderErrors() []*errors.RenderError {
	return t.recorder.renders
}

// recorder is the error handler installed by the tester.
type recorder struct {
	errs        []*errors.SlotsError
	panics      []*errors.PanicError
	renders     []*errors.RenderError
	consistency []*errors.ConsistencyError
	order       []error
}

func (r *recorder) HandleError(err *errors.SlotsError) {
	r.errs = append(r.errs, err)
	r.order = append(r.order, err)
}

func (r *recorder) HandlePanic(err *errors.PanicError) {
	r.panics = append(r.panics, err)
	r.order = append(r.order, err)
}

func (r *recorder) HandleRenderError(err *errors.RenderError) {
	r.renders = append(r.renders, err)
	r.order = append(r.order, err)
}

func (r *recorder) HandleConsistencyError(err *errors.ConsistencyError) {
	r.consistency = append(r.consistency, err)
	r.order = append(r.order, err)
}

func (r *recorder) all() []error {
	return append([]error(nil), r.order...)
}
