package core

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/go-drift/slots/pkg/errors"
)

// DefaultMaxPasses bounds how many times one instance may render within a
// single Flush before the scheduler gives up.
const DefaultMaxPasses = 50

// Scheduler tracks mounted instances and the queue of instances that need
// another render pass. At most one pass per instance is queued at a time.
//
// Scheduler is NOT thread-safe. Every method, and every State handle of the
// instances it owns, must be used from a single goroutine. Use Loop to feed
// events from other goroutines.
type Scheduler struct {
	dirty     []Element
	mounted   map[uint64]Element
	nextID    uint64
	flushing  bool
	logger    *zap.Logger
	maxPasses int
	strict    bool

	// OnNeedsRender is called when an instance is added to the render queue,
	// signalling the host that Flush should run soon.
	OnNeedsRender func()
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithLogger sets the logger used for pass tracing and discarded updates.
func WithLogger(logger *zap.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxPasses sets how many passes one instance may take within a Flush.
func WithMaxPasses(n int) SchedulerOption {
	return func(s *Scheduler) {
		if n > 0 {
			s.maxPasses = n
		}
	}
}

// WithStrict makes Flush and Mount return render errors (panics inside a
// component) instead of only reporting them.
func WithStrict(strict bool) SchedulerOption {
	return func(s *Scheduler) {
		s.strict = strict
	}
}

// NewScheduler creates a new Scheduler.
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		mounted:   make(map[uint64]Element),
		logger:    zap.NewNop(),
		maxPasses: DefaultMaxPasses,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mount registers a new instance of component and runs its first render pass.
// The instance is returned even when the first pass fails, so the caller can
// inspect or unmount it.
func Mount[T any](s *Scheduler, name string, component Component[T]) (*Instance[T], error) {
	if component == nil {
		return nil, &errors.SlotsError{Op: "core.Mount", Kind: errors.KindRender, Instance: name, Err: fmt.Errorf("nil component")}
	}
	s.nextID++
	inst := &Instance[T]{component: component}
	inst.id = s.nextID
	inst.name = name
	inst.scheduler = s
	inst.self = inst
	inst.lastCount = -1
	inst.state = StateClean
	s.mounted[inst.id] = inst

	s.logger.Debug("mount", zap.String("instance", name), zap.Uint64("id", inst.id))
	return inst, s.runPass(inst)
}

// Unmount releases every cell owned by e, runs its unmount cleanups and
// cancels any queued pass. Updates that arrive later are discarded.
func (s *Scheduler) Unmount(e Element) {
	if e == nil {
		return
	}
	b := e.base()
	if b.state == StateUnmounted {
		return
	}
	b.unmount()
	delete(s.mounted, b.id)
	if b.queued {
		b.queued = false
		s.dirty = slices.DeleteFunc(s.dirty, func(other Element) bool { return other == e })
	}
	s.logger.Debug("unmount", zap.String("instance", b.name), zap.Uint64("id", b.id))
}

// ScheduleRender marks e dirty and queues a render pass for it.
// Calls for an instance that is already queued are no-ops. Calls made while
// the instance is rendering queue exactly one pass after the current one.
func (s *Scheduler) ScheduleRender(e Element) {
	if e == nil {
		return
	}
	b := e.base()
	if !b.Mounted() {
		return
	}
	b.state = StateDirty
	if b.rendering {
		b.rerender = true
		return
	}
	if b.queued {
		return
	}
	b.queued = true
	s.dirty = append(s.dirty, e)

	if s.OnNeedsRender != nil {
		s.OnNeedsRender()
	}
}

// NeedsWork returns true if any instance is waiting for a render pass.
func (s *Scheduler) NeedsWork() bool {
	return len(s.dirty) > 0
}

// Mounted returns the number of mounted instances.
func (s *Scheduler) Mounted() int {
	return len(s.mounted)
}

// Flush runs queued render passes in the order they were requested until
// the queue is empty. It stops at the first consistency violation and
// returns it; the failed instance never renders again and the rest of the
// queue is left for the caller to decide on.
func (s *Scheduler) Flush() error {
	if s.flushing {
		return nil
	}
	s.flushing = true
	defer func() { s.flushing = false }()

	passes := make(map[uint64]int)
	for len(s.dirty) > 0 {
		e := s.dirty[0]
		s.dirty = s.dirty[1:]
		b := e.base()
		b.queued = false
		if !b.Mounted() {
			continue
		}

		passes[b.id]++
		if passes[b.id] > s.maxPasses {
			b.queued = true
			s.dirty = append([]Element{e}, s.dirty...)
			return &errors.SlotsError{
				Op:       "core.Flush",
				Kind:     errors.KindRender,
				Instance: b.name,
				Err:      fmt.Errorf("%w: limit is %d", errors.ErrTooManyPasses, s.maxPasses),
			}
		}

		if err := s.runPass(e); err != nil {
			return err
		}
	}
	return nil
}

// runPass commits e's pending updates and renders it once.
func (s *Scheduler) runPass(e Element) error {
	b := e.base()
	s.logger.Debug("render pass",
		zap.String("instance", b.name),
		zap.Uint64("id", b.id),
		zap.Uint64("version", b.version+1),
		zap.Int("pending", len(b.pending)),
	)

	err := e.runPass()
	if b.rerender {
		b.rerender = false
		s.ScheduleRender(e)
	}
	if err == nil {
		s.logger.Debug("render pass done",
			zap.String("instance", b.name),
			zap.Uint64("id", b.id),
			zap.Uint64("version", b.version),
			zap.Int("cells", b.CellCount()),
		)
		return nil
	}

	var cerr *errors.ConsistencyError
	if errors.As(err, &cerr) {
		s.logger.Error("cell order violation",
			zap.String("instance", b.name),
			zap.Uint64("id", b.id),
			zap.Int("expected", cerr.Expected),
			zap.Int("actual", cerr.Actual),
		)
		errors.ReportConsistency(cerr)
		return cerr
	}

	var rerr *errors.RenderError
	if errors.As(err, &rerr) {
		errors.ReportRenderError(rerr)
		if s.strict {
			return rerr
		}
		return nil
	}
	return err
}
