package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
)

var (
	// DefaultHandler receives everything passed to the Report functions.
	// Until SetHandler is called it logs through a production zap logger.
	DefaultHandler ErrorHandler = NewLogHandler(nil)

	handlerMu sync.RWMutex
)

// SetHandler replaces DefaultHandler. A nil h installs a fresh LogHandler.
func SetHandler(h ErrorHandler) {
	if h == nil {
		h = NewLogHandler(nil)
	}
	handlerMu.Lock()
	DefaultHandler = h
	handlerMu.Unlock()
}

// dispatch hands err to the installed handler, if any.
func dispatch(send func(ErrorHandler)) {
	handlerMu.RLock()
	h := DefaultHandler
	handlerMu.RUnlock()
	if h != nil {
		send(h)
	}
}

func stamp(t *time.Time) {
	if t.IsZero() {
		*t = time.Now()
	}
}

// Report passes err to the installed handler, stamping it if needed.
func Report(err *SlotsError) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	dispatch(func(h ErrorHandler) { h.HandleError(err) })
}

func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	dispatch(func(h ErrorHandler) { h.HandlePanic(err) })
}

func ReportRenderError(err *RenderError) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	dispatch(func(h ErrorHandler) { h.HandleRenderError(err) })
}

func ReportConsistency(err *ConsistencyError) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	dispatch(func(h ErrorHandler) { h.HandleConsistencyError(err) })
}

// Recover reports a panic in flight as a PanicError tagged with op.
// It only works when deferred directly:
//
//	defer errors.Recover("core.OnUnmount")
func Recover(op string) {
	r := recover()
	if r == nil {
		return
	}
	ReportPanic(&PanicError{Op: op, Value: r, StackTrace: CaptureStack()})
}

// CaptureStack formats up to 32 frames of the caller's caller, one
// "function\n\tfile:line" pair per frame.
func CaptureStack() string {
	pcs := make([]uintptr, 32)
	pcs = pcs[:runtime.Callers(3, pcs)]
	if len(pcs) == 0 {
		return ""
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(pcs)
	for more := true; more; {
		var frame runtime.Frame
		frame, more = frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
	}
	return sb.String()
}
