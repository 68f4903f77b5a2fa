// Package observability provides production-grade observability features
// for sugarch: structured logging, metrics, and distributed tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// DispatchLogger adds dispatch-cycle context to a logger.
// Returns a new logger with dispatch_id and activity fields.
//
// Example:
//
//	enriched := DispatchLogger(logger, "disp-a1b2c3d4", "Kiss")
//	enriched.Debug("listener invoked") // includes dispatch_id, activity
func DispatchLogger(logger *slog.Logger, dispatchID, activity string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("dispatch_id", dispatchID),
		slog.String("activity", activity),
	)
}

// LogDispatchComplete logs the completion of a dispatch cycle.
func LogDispatchComplete(logger *slog.Logger, activity string, matched int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("dispatch cycle completed",
		slog.String("activity", activity),
		slog.Int("matched_listeners", matched),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogListenerPanic logs a recovered listener panic. The mode and activity
// filter identify the registration that was firing.
func LogListenerPanic(logger *slog.Logger, mode, activityFilter string, recovered any) {
	if logger == nil {
		return
	}
	logger.Error("activity listener panicked",
		slog.String("mode", mode),
		slog.String("activity_filter", activityFilter),
		slog.Any("panic", recovered),
	)
}

// LogFeedAttached logs a successful feed attachment to a host.
func LogFeedAttached(logger *slog.Logger, observer uint32) {
	if logger == nil {
		return
	}
	logger.Info("activity feed attached",
		slog.Uint64("observer", uint64(observer)),
	)
}

// LogMessageDropped logs a room message the feed could not route (non-fatal).
func LogMessageDropped(logger *slog.Logger, kind string, reason string, err error) {
	if logger == nil {
		return
	}
	attrs := []any{
		slog.String("kind", kind),
		slog.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	logger.Warn("room message dropped", attrs...)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
