package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the sugarch tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("sugarch")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartMessageSpan starts a span covering one inbound room message.
	// Returns the context with span and the span itself.
	StartMessageSpan(ctx context.Context, kind string, sender uint32) (context.Context, trace.Span)

	// StartDispatchSpan starts a span for a dispatch cycle.
	// The dispatch span should be a child of the message span.
	StartDispatchSpan(ctx context.Context, activity, modes string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartMessageSpan starts a span covering one inbound room message.
func (m *otelSpanManager) StartMessageSpan(ctx context.Context, kind string, sender uint32) (context.Context, trace.Span) {
	return tracer.Start(ctx, "sugarch.message",
		trace.WithAttributes(
			attribute.String("message.kind", kind),
			attribute.Int64("message.sender", int64(sender)),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartDispatchSpan starts a span for a dispatch cycle.
func (m *otelSpanManager) StartDispatchSpan(ctx context.Context, activity, modes string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "sugarch.dispatch",
		trace.WithAttributes(
			attribute.String("activity.name", activity),
			attribute.String("activity.modes", modes),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
