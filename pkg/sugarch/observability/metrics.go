package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records activity routing metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
//
// Arguments are plain strings and ints so packages can depend on this
// interface without importing activity types.
type MetricsRecorder interface {
	// RecordDispatch records a completed dispatch cycle with the activity
	// name, the number of listeners that matched, and the cycle duration.
	RecordDispatch(activity string, matched int, duration time.Duration)

	// RecordListenerFailure records a listener that panicked during dispatch.
	RecordListenerFailure(mode, activity string)

	// RecordSubscriptions records a change in active registrations for a mode.
	// delta is +1 on subscribe and -1 on removal.
	RecordSubscriptions(mode string, delta int)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	dispatches       metric.Int64Counter
	dispatchLatency  metric.Float64Histogram
	matchedListeners metric.Int64Histogram
	listenerFailures metric.Int64Counter
	subscriptions    metric.Int64UpDownCounter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("sugarch")

	dispatches, err := meter.Int64Counter("sugarch.activity.dispatches",
		metric.WithDescription("Number of dispatch cycles"),
	)
	if err != nil {
		return nil, err
	}

	dispatchLatency, err := meter.Float64Histogram("sugarch.activity.dispatch_latency_ms",
		metric.WithDescription("Dispatch cycle latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	matchedListeners, err := meter.Int64Histogram("sugarch.activity.matched_listeners",
		metric.WithDescription("Listeners matched per dispatch cycle"),
	)
	if err != nil {
		return nil, err
	}

	listenerFailures, err := meter.Int64Counter("sugarch.activity.listener_failures",
		metric.WithDescription("Number of listener panics recovered during dispatch"),
	)
	if err != nil {
		return nil, err
	}

	subscriptions, err := meter.Int64UpDownCounter("sugarch.activity.subscriptions",
		metric.WithDescription("Active listener registrations"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		dispatches:       dispatches,
		dispatchLatency:  dispatchLatency,
		matchedListeners: matchedListeners,
		listenerFailures: listenerFailures,
		subscriptions:    subscriptions,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordDispatch records a completed dispatch cycle.
func (m *otelMetrics) RecordDispatch(activity string, matched int, duration time.Duration) {
	ctx := context.Background()
	attrs := []attribute.KeyValue{
		attribute.String("activity", activity),
	}

	m.dispatches.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.dispatchLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	m.matchedListeners.Record(ctx, int64(matched), metric.WithAttributes(attrs...))
}

// RecordListenerFailure records a recovered listener panic.
func (m *otelMetrics) RecordListenerFailure(mode, activity string) {
	m.listenerFailures.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("activity", activity),
	))
}

// RecordSubscriptions records a registration count change for a mode.
func (m *otelMetrics) RecordSubscriptions(mode string, delta int) {
	m.subscriptions.Add(context.Background(), int64(delta), metric.WithAttributes(
		attribute.String("mode", mode),
	))
}
