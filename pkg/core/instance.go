package core

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/go-drift/slots/pkg/errors"
)

// InstanceState is the lifecycle state of a component instance.
type InstanceState int

const (
	// StateUnmounted is the state before mount and after unmount.
	StateUnmounted InstanceState = iota
	// StateClean means the last pass reflects every committed update.
	StateClean
	// StateDirty means updates are waiting for the next pass.
	StateDirty
	// StateFailed means a consistency violation stopped the instance for good.
	StateFailed
)

func (s InstanceState) String() string {
	switch s {
	case StateUnmounted:
		return "unmounted"
	case StateClean:
		return "clean"
	case StateDirty:
		return "dirty"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("InstanceState(%d)", int(s))
	}
}

// Component is a function component. It runs once per render pass and must
// call its behavior units in the same order, the same number of times, on
// every pass of an instance.
type Component[T any] func(h *Hooks) T

// Element is a mounted component instance as seen by the scheduler.
// It is implemented by *Instance[T].
type Element interface {
	// ID returns the scheduler-assigned sequence number.
	ID() uint64
	// Name returns the debug name given at mount.
	Name() string
	// State returns the lifecycle state.
	State() InstanceState

	base() *instanceBase
	runPass() error
}

type update struct {
	index int
	apply func(any) any
}

// instanceBase owns the cell arena and lifecycle of one instance.
type instanceBase struct {
	id        uint64
	name      string
	scheduler *Scheduler
	self      Element

	cells     []cell
	pending   []update
	disposers []func()

	// failure is the violation detected during the current pass. It survives
	// a component that recovers the panic raised at detection.
	failure *errors.ConsistencyError

	state     InstanceState
	version   uint64
	lastCount int // cell count of the last completed pass, -1 before the first
	rendering bool
	rerender  bool
	queued    bool
}

// ID returns the scheduler-assigned sequence number of the instance.
func (b *instanceBase) ID() uint64 { return b.id }

// Name returns the debug name of the instance.
func (b *instanceBase) Name() string { return b.name }

// State returns the lifecycle state of the instance.
func (b *instanceBase) State() InstanceState { return b.state }

// Version returns the number of completed render passes.
func (b *instanceBase) Version() uint64 { return b.version }

// CellCount returns the number of cells allocated by the last completed pass.
func (b *instanceBase) CellCount() int {
	if b.lastCount < 0 {
		return 0
	}
	return b.lastCount
}

// CellValues returns a copy of the committed cell values in position order.
// It is meant for debugging and tests.
func (b *instanceBase) CellValues() []any {
	values := make([]any, len(b.cells))
	for i, c := range b.cells {
		if ref, ok := c.value.(interface{ current() any }); ok {
			values[i] = ref.current()
			continue
		}
		values[i] = c.value
	}
	return values
}

// Mounted reports whether the instance is mounted and still able to render.
func (b *instanceBase) Mounted() bool {
	return b.state == StateClean || b.state == StateDirty
}

func (b *instanceBase) base() *instanceBase { return b }

func (b *instanceBase) logger() *zap.Logger {
	if b.scheduler == nil {
		return zap.NewNop()
	}
	return b.scheduler.logger
}

// requestUpdate queues an update for the cell at index. The cell is not
// touched until commitPendingUpdates runs before the next pass.
func (b *instanceBase) requestUpdate(index int, apply func(any) any) {
	if !b.Mounted() {
		b.logger().Debug("update discarded",
			zap.String("instance", b.name),
			zap.Uint64("id", b.id),
			zap.Int("cell", index),
			zap.Stringer("state", b.state),
			zap.Error(errors.ErrUnmounted),
		)
		return
	}
	b.pending = append(b.pending, update{index: index, apply: apply})
	if b.scheduler != nil {
		b.scheduler.ScheduleRender(b.self)
	} else {
		b.state = StateDirty
	}
}

// commitPendingUpdates applies queued updates in request order.
func (b *instanceBase) commitPendingUpdates() {
	pending := b.pending
	b.pending = nil
	for _, u := range pending {
		if u.index < 0 || u.index >= len(b.cells) {
			continue
		}
		b.cells[u.index].value = u.apply(b.cells[u.index].value)
	}
}

// beginRender returns a fresh handle with its cursor at the first cell.
func (b *instanceBase) beginRender() *Hooks {
	if b.lastCount < 0 && len(b.disposers) > 0 {
		// An earlier first pass failed part way; release what it registered
		// so the retry starts from a clean slate.
		b.runDisposers()
	}
	return &Hooks{inst: b, active: true}
}

// pass runs one render pass. render is the typed call into the component.
func (b *instanceBase) pass(render func(h *Hooks)) (err error) {
	if !b.Mounted() {
		return nil
	}
	b.commitPendingUpdates()
	b.state = StateClean
	h := b.beginRender()
	next := b.version + 1

	b.rendering = true
	b.rerender = false
	b.failure = nil
	func() {
		defer func() {
			h.active = false
			b.rendering = false
			if r := recover(); r != nil {
				err = b.recovered(r, next)
			}
		}()
		render(h)
	}()

	if b.failure != nil {
		err = b.failure
		b.failure = nil
	} else if err == nil && b.lastCount >= 0 && h.cursor != b.lastCount {
		err = b.violation(next, b.lastCount, h.cursor, -1, "")
	}

	var cerr *errors.ConsistencyError
	if errors.As(err, &cerr) {
		b.state = StateFailed
		b.pending = nil
		return cerr
	}
	if err != nil {
		return err
	}

	b.lastCount = h.cursor
	b.version = next
	if b.rerender {
		b.state = StateDirty
	}
	return nil
}

func (b *instanceBase) recovered(r any, pass uint64) error {
	if cerr, ok := r.(*errors.ConsistencyError); ok {
		return cerr
	}
	rerr := &errors.RenderError{
		Instance:  b.name,
		Pass:      pass,
		Recovered: r,
		Timestamp: time.Now(),
	}
	if DebugMode {
		rerr.StackTrace = errors.CaptureStack()
	}
	return rerr
}

func (b *instanceBase) violation(pass uint64, expected, actual, index int, detail string) *errors.ConsistencyError {
	cerr := &errors.ConsistencyError{
		Instance:   b.name,
		InstanceID: b.id,
		Pass:       pass,
		Expected:   expected,
		Actual:     actual,
		Index:      index,
		Detail:     detail,
		Timestamp:  time.Now(),
	}
	if DebugMode {
		cerr.StackTrace = errors.CaptureStack()
	}
	return cerr
}

// misbound records a positional violation at index and aborts the pass.
// The final cell count is unknown at this point, so Actual is -1.
func (b *instanceBase) misbound(index int, detail string) {
	cerr := b.violation(b.version+1, b.lastCount, -1, index, detail)
	if b.failure == nil {
		b.failure = cerr
	}
	panic(cerr)
}

// runDisposers executes all registered cleanups in reverse order.
func (b *instanceBase) runDisposers() {
	disposers := b.disposers
	b.disposers = nil
	for i := len(disposers) - 1; i >= 0; i-- {
		func() {
			defer errors.Recover("core.OnUnmount")
			disposers[i]()
		}()
	}
}

// unmount releases every cell and drops queued updates.
func (b *instanceBase) unmount() {
	if b.state == StateUnmounted {
		return
	}
	b.state = StateUnmounted
	b.runDisposers()
	b.cells = nil
	b.pending = nil
	b.rerender = false
}

// Instance is one mounted occurrence of a component. It owns the component's
// cells; they live exactly as long as the instance stays mounted.
type Instance[T any] struct {
	instanceBase
	component Component[T]
	output    T
}

// Output returns what the last successful render pass produced.
func (i *Instance[T]) Output() T {
	return i.output
}

func (i *Instance[T]) runPass() error {
	return i.pass(func(h *Hooks) {
		out := i.component(h)
		i.output = out
	})
}
