package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation tracks one traced and measured news fetch.
type Operation struct {
	Kind      string
	StartTime time.Time

	span    trace.Span
	metrics *Metrics
}

// StartOperation starts a span named spanName and marks a fetch in flight.
// If metrics is nil, metric recording is silently skipped.
func StartOperation(ctx context.Context, spanName, kind string, metrics *Metrics, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(attribute.String(AttrRequestKind, kind))
	span.SetAttributes(attrs...)

	metrics.RecordFetchStart(ctx)
	return ctx, &Operation{
		Kind:      kind,
		StartTime: time.Now(),
		span:      span,
		metrics:   metrics,
	}
}

// End closes the span and records the finished fetch.
func (op *Operation) End(ctx context.Context, outcome string, err error) {
	duration := op.Duration()
	if err != nil {
		op.span.RecordError(err)
		op.span.SetStatus(codes.Error, err.Error())
	}
	op.span.SetAttributes(
		attribute.String(AttrOutcome, outcome),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	op.span.End()

	op.metrics.RecordFetchEnd(ctx, op.Kind, outcome, duration)
}

// Span returns the operation span.
func (op *Operation) Span() trace.Span {
	return op.span
}

// Duration returns the elapsed time since the operation started.
func (op *Operation) Duration() time.Duration {
	return time.Since(op.StartTime)
}
