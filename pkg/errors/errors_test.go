package errors

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSlotsErrorString(t *testing.T) {
	err := &SlotsError{
		Op:   "core.UseState",
		Kind: KindNoActivePass,
		Err:  ErrNoActivePass,
	}
	want := "core.UseState [no-active-pass]: no active render pass"
	if got := err.Error(); got != want {
		t.Errorf("SlotsError.Error() = %q, want %q", got, want)
	}
}

func TestSlotsErrorWithInstance(t *testing.T) {
	err := &SlotsError{
		Op:       "core.UseState",
		Kind:     KindNoActivePass,
		Instance: "TodoApp",
		Err:      ErrNoActivePass,
	}
	if got := err.Error(); !strings.Contains(got, "instance=TodoApp") {
		t.Errorf("error string %q should contain %q", got, "instance=TodoApp")
	}
	if !Is(err, ErrNoActivePass) {
		t.Error("expected SlotsError to unwrap to ErrNoActivePass")
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindConsistency, "consistency"},
		{KindNoActivePass, "no-active-pass"},
		{KindRender, "render"},
		{KindPanic, "panic"},
		{KindConfig, "config"},
		{ErrorKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestConsistencyErrorString(t *testing.T) {
	err := &ConsistencyError{
		Instance:   "HoverBox",
		InstanceID: 3,
		Pass:       2,
		Expected:   2,
		Actual:     1,
		Index:      -1,
	}
	got := err.Error()
	for _, want := range []string{"HoverBox", "#3", "pass 2", "expected 2 cells, got 1", "conditionals"} {
		if !strings.Contains(got, want) {
			t.Errorf("error string %q should contain %q", got, want)
		}
	}
	if strings.Contains(got, "at cell") {
		t.Errorf("count mismatch should not name a cell, got %q", got)
	}

	err.Index = 1
	err.Actual = -1
	err.Detail = "stored string, requested bool"
	got = err.Error()
	if !strings.Contains(got, "on pass 2 at cell 1: stored string, requested bool") {
		t.Errorf("unexpected error string %q", got)
	}
	if strings.Contains(got, "cells, got") {
		t.Errorf("positional violation should not claim a cell count, got %q", got)
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{
		Value:     "test panic",
		Timestamp: time.Now(),
	}
	want := "panic: test panic"
	if got := err.Error(); got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}

	err.Op = "core.Loop"
	want = "panic in core.Loop: test panic"
	if got := err.Error(); got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestRenderErrorString(t *testing.T) {
	err := &RenderError{Instance: "Counter", Pass: 4, Recovered: "nil pointer dereference"}
	want := "panic in Counter render pass 4: nil pointer dereference"
	if got := err.Error(); got != want {
		t.Errorf("RenderError.Error() = %q, want %q", got, want)
	}

	cause := fmt.Errorf("boom")
	err2 := &RenderError{Instance: "Counter", Pass: 4, Err: cause}
	if got := err2.Error(); !strings.Contains(got, "error in Counter render pass 4") {
		t.Errorf("RenderError.Error() = %q, should contain 'error in'", got)
	}
	if !Is(err2, cause) {
		t.Error("expected RenderError to unwrap to its cause")
	}

	err3 := &RenderError{Instance: "Counter", Pass: 1, Recovered: cause}
	if !Is(err3, cause) {
		t.Error("expected RenderError to unwrap a recovered error value")
	}

	err4 := &RenderError{Instance: "Counter", Pass: 1}
	want = "unknown error in Counter render pass 1"
	if got := err4.Error(); got != want {
		t.Errorf("RenderError.Error() = %q, want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	var captured *SlotsError
	handler := &testHandler{
		onError: func(err *SlotsError) {
			captured = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	Report(&SlotsError{Op: "test.op", Kind: KindConfig, Err: fmt.Errorf("bad")})

	if captured == nil {
		t.Fatal("expected error to be captured")
	}
	if captured.Op != "test.op" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.op")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestReportConsistency(t *testing.T) {
	var captured *ConsistencyError
	handler := &testHandler{
		onConsistency: func(err *ConsistencyError) {
			captured = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	ReportConsistency(&ConsistencyError{Instance: "A", Expected: 1, Actual: 2, Index: -1})
	ReportConsistency(nil)

	if captured == nil {
		t.Fatal("expected consistency error to be captured")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestReportRenderError(t *testing.T) {
	var captured *RenderError
	handler := &testHandler{
		onRender: func(err *RenderError) {
			captured = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	ReportRenderError(&RenderError{Instance: "A", Recovered: "x"})

	if captured == nil {
		t.Fatal("expected render error to be captured")
	}
	if captured.Instance != "A" {
		t.Errorf("Instance = %q, want %q", captured.Instance, "A")
	}
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	handler := &testHandler{
		onPanic: func(err *PanicError) {
			captured = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	if captured == nil {
		t.Fatal("expected panic to be recovered and captured")
	}
	if captured.Value != "intentional test panic" {
		t.Errorf("Value = %v, want %q", captured.Value, "intentional test panic")
	}
	if captured.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.recover")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if stack == "" {
		t.Error("expected non-empty stack trace")
	}
	if !strings.Contains(stack, "testing") && !strings.Contains(stack, "runtime") {
		t.Errorf("stack trace should contain testing or runtime frames, got: %s", stack)
	}
}

func TestSetHandlerNil(t *testing.T) {
	oldHandler := DefaultHandler
	defer SetHandler(oldHandler)

	SetHandler(nil)
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", DefaultHandler)
	}
}

func TestLogHandler(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	h := NewLogHandler(zap.New(core))

	h.HandleConsistencyError(&ConsistencyError{Instance: "Todo", InstanceID: 7, Expected: 2, Actual: 3, Index: -1})
	h.HandleRenderError(&RenderError{Instance: "Todo", Pass: 2, Recovered: "boom"})
	h.HandleError(&SlotsError{Op: "op", Kind: KindConfig, Err: fmt.Errorf("bad"), Instance: "Todo"})
	h.HandlePanic(&PanicError{Op: "loop", Value: "x"})
	h.HandleError(nil)

	if logs.Len() != 4 {
		t.Fatalf("Expected 4 log entries, got %d", logs.Len())
	}
	violation := logs.FilterMessage("cell order violation").All()
	if len(violation) != 1 {
		t.Fatalf("Expected 1 violation entry, got %d", len(violation))
	}
	fields := violation[0].ContextMap()
	if fields["instance"] != "Todo" {
		t.Errorf("instance field = %v, want Todo", fields["instance"])
	}
	if fields["expected"] != int64(2) || fields["actual"] != int64(3) {
		t.Errorf("unexpected counts in %v", fields)
	}
	if violation[0].LoggerName != "slots" {
		t.Errorf("logger name = %q, want slots", violation[0].LoggerName)
	}
}

func TestLogHandlerVerboseStack(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	h := NewLogHandler(zap.New(core))
	h.Verbose = true

	h.HandlePanic(&PanicError{Value: "x", StackTrace: "frame"})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 log entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["stack"] != "frame" {
		t.Errorf("expected stack field, got %v", entries[0].ContextMap())
	}
}

type testHandler struct {
	onError       func(*SlotsError)
	onPanic       func(*PanicError)
	onRender      func(*RenderError)
	onConsistency func(*ConsistencyError)
}

func (h *testHandler) HandleError(err *SlotsError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}

func (h *testHandler) HandleRenderError(err *RenderError) {
	if h.onRender != nil {
		h.onRender(err)
	}
}

func (h *testHandler) HandleConsistencyError(err *ConsistencyError) {
	if h.onConsistency != nil {
		h.onConsistency(err)
	}
}
