package errors

import (
	"go.uber.org/zap"
)

// LogHandler is an ErrorHandler that writes errors through a zap logger.
type LogHandler struct {
	// Verbose enables stack traces in the logged fields.
	Verbose bool

	logger *zap.Logger
}

// NewLogHandler returns a LogHandler writing to logger.
// A nil logger selects a production logger on stderr, falling back to a
// no-op logger if one cannot be built.
func NewLogHandler(logger *zap.Logger) *LogHandler {
	if logger == nil {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			logger = zap.NewNop()
		}
	}
	return &LogHandler{logger: logger.Named("slots")}
}

func (h *LogHandler) log() *zap.Logger {
	if h.logger == nil {
		return zap.NewNop()
	}
	return h.logger
}

func (h *LogHandler) stack(trace string) []zap.Field {
	if !h.Verbose || trace == "" {
		return nil
	}
	return []zap.Field{zap.String("stack", trace)}
}

// HandleError logs a SlotsError.
func (h *LogHandler) HandleError(err *SlotsError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Stringer("kind", err.Kind),
		zap.Error(err.Err),
	}
	if err.Instance != "" {
		fields = append(fields, zap.String("instance", err.Instance))
	}
	h.log().Error("error", append(fields, h.stack(err.StackTrace)...)...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	fields := []zap.Field{zap.Any("value", err.Value)}
	if err.Op != "" {
		fields = append(fields, zap.String("op", err.Op))
	}
	h.log().Error("panic", append(fields, h.stack(err.StackTrace)...)...)
}

// HandleRenderError logs a RenderError.
func (h *LogHandler) HandleRenderError(err *RenderError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("instance", err.Instance),
		zap.Uint64("pass", err.Pass),
		zap.String("error", err.Error()),
	}
	h.log().Error("render failed", append(fields, h.stack(err.StackTrace)...)...)
}

// HandleConsistencyError logs a ConsistencyError. These are always logged
// with their stack, since the stack is what locates the offending call.
func (h *LogHandler) HandleConsistencyError(err *ConsistencyError) {
	if err == nil {
		return
	}
	h.log().Error("cell order violation",
		zap.String("instance", err.Instance),
		zap.Uint64("id", err.InstanceID),
		zap.Uint64("pass", err.Pass),
		zap.Int("expected", err.Expected),
		zap.Int("actual", err.Actual),
		zap.Int("index", err.Index),
		zap.String("detail", err.Detail),
		zap.String("stack", err.StackTrace),
	)
}
