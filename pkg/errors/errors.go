// Package errors provides structured error handling for the slots runtime.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConsistency indicates that the cell-call order or count of a
	// component changed between two passes of the same instance.
	KindConsistency
	// KindNoActivePass indicates a behavior unit was used without an active
	// render pass to bind its cells to.
	KindNoActivePass
	// KindRender indicates a component failed during a render pass.
	KindRender
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindConfig indicates invalid configuration.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindConsistency:
		return "consistency"
	case KindNoActivePass:
		return "no-active-pass"
	case KindRender:
		return "render"
	case KindPanic:
		return "panic"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

var (
	// ErrNoActivePass is wrapped by errors raised when a behavior unit is
	// called with a nil or expired render handle.
	ErrNoActivePass = errors.New("no active render pass")
	// ErrUnmounted marks an update that was dropped because its instance is
	// no longer mounted.
	ErrUnmounted = errors.New("instance is not mounted")
	// ErrTooManyPasses is returned when a flush keeps re-rendering the same
	// instances without settling.
	ErrTooManyPasses = errors.New("too many render passes in one flush")
)

// SlotsError represents a structured error in the slots runtime.
type SlotsError struct {
	// Op is the operation that failed (e.g., "core.UseState").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Instance is the debug name of the component instance, if applicable.
	Instance string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *SlotsError) Error() string {
	if e.Instance != "" {
		return fmt.Sprintf("%s [%s] instance=%s: %v", e.Op, e.Kind, e.Instance, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *SlotsError) Unwrap() error {
	return e.Err
}

// ConsistencyError reports that a component allocated a different number of
// cells, or a different cell type at some position, than it did on the
// previous pass of the same instance. Cell identity is positional, so this
// always means a unit call sits behind a condition, an early return, or a
// loop with a variable trip count.
type ConsistencyError struct {
	// Instance is the debug name of the component instance.
	Instance string
	// InstanceID is the scheduler-assigned sequence number of the instance.
	InstanceID uint64
	// Pass is the render version that detected the violation.
	Pass uint64
	// Expected is the cell count recorded by the previous pass.
	Expected int
	// Actual is the cell count of the pass that ended with a different count.
	// It is -1 when the pass was stopped at Index before it finished, since
	// the final count is unknown then.
	Actual int
	// Index is the offending cell position, or -1 for a pure count mismatch.
	Index int
	// Detail carries extra context such as the mismatched types.
	Detail string
	// StackTrace contains the call stack at the time of detection.
	StackTrace string
	// Timestamp is when the violation was detected.
	Timestamp time.Time
}

func (e *ConsistencyError) Error() string {
	msg := fmt.Sprintf("cell order changed in %s (#%d) on pass %d", e.Instance, e.InstanceID, e.Pass)
	if e.Index >= 0 {
		msg += fmt.Sprintf(" at cell %d", e.Index)
	} else {
		msg += fmt.Sprintf(": expected %d cells, got %d", e.Expected, e.Actual)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg + "; check for unit calls inside conditionals, loops or after early returns"
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "core.Loop").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// RenderError represents a failure while running a component's render pass.
type RenderError struct {
	// Instance is the debug name of the component instance that failed.
	Instance string
	// Pass is the render version that failed.
	Pass uint64
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *RenderError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic in %s render pass %d: %v", e.Instance, e.Pass, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error in %s render pass %d: %v", e.Instance, e.Pass, e.Err)
	}
	return fmt.Sprintf("unknown error in %s render pass %d", e.Instance, e.Pass)
}

func (e *RenderError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	if err, ok := e.Recovered.(error); ok {
		return err
	}
	return nil
}

// ErrorHandler receives errors reported by the slots runtime.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *SlotsError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleRenderError is called when a render pass fails.
	HandleRenderError(err *RenderError)
	// HandleConsistencyError is called when a cell order violation is detected.
	HandleConsistencyError(err *ConsistencyError)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
