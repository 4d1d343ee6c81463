package core

import (
	"context"

	"github.com/go-drift/slots/pkg/errors"
)

// Loop is the single logical thread that owns a Scheduler. Callbacks handed
// to Dispatch, from any goroutine, run one at a time on the goroutine that
// called Run. After each batch of callbacks the scheduler is flushed, so an
// event handler always runs to completion before the passes it caused.
type Loop struct {
	scheduler *Scheduler
	queue     chan func()
	done      chan struct{}
}

// NewLoop creates a loop around s. buffer is the number of callbacks that
// can be queued before Dispatch blocks.
func NewLoop(s *Scheduler, buffer int) *Loop {
	if buffer < 0 {
		buffer = 0
	}
	return &Loop{
		scheduler: s,
		queue:     make(chan func(), buffer),
		done:      make(chan struct{}),
	}
}

// Scheduler returns the scheduler driven by the loop.
func (l *Loop) Scheduler() *Scheduler {
	return l.scheduler
}

// Dispatch schedules callback to run on the loop goroutine.
// It blocks while the queue is full and returns false if callback is nil or
// the loop has stopped.
func (l *Loop) Dispatch(callback func()) bool {
	if callback == nil {
		return false
	}
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- callback:
		return true
	case <-l.done:
		return false
	}
}

// Run processes callbacks until ctx is cancelled or a flush returns an
// error: a consistency violation, ErrTooManyPasses, or a render error when
// the scheduler is strict. It must be called at most once.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	// Passes queued before Run, e.g. by Mount, are flushed first.
	if err := l.scheduler.Flush(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case callback := <-l.queue:
			l.invoke(callback)
			l.drain()
			if err := l.scheduler.Flush(); err != nil {
				return err
			}
		}
	}
}

// drain runs callbacks that are already queued so they share one flush.
func (l *Loop) drain() {
	for {
		select {
		case callback := <-l.queue:
			l.invoke(callback)
		default:
			return
		}
	}
}

func (l *Loop) invoke(callback func()) {
	defer errors.Recover("core.Loop")
	callback()
}
