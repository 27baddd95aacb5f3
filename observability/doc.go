// Package observability wires OpenTelemetry tracing and metrics for news
// fetches and the search pipeline.
//
// Each fetch runs inside an Operation, which owns a client span and the
// newsfeed.fetch.* instruments:
//
//	ctx, op := observability.StartOperation(ctx, observability.SpanFetch, "business", metrics)
//	articles, err := fetch(ctx)
//	op.End(ctx, observability.OutcomeOK, err)
//
// Metrics is nil-safe, so components built without telemetry pass nil.
// The Component installs OTLP HTTP exporters for the process lifetime when
// observability.enabled is set; otherwise the global no-op providers stay.
package observability
