package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/newsfeed/component"
	"github.com/kbukum/newsfeed/logger"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

// sumWhere adds up int64 sum points whose attributes contain every pair in want.
func sumWhere(rm metricdata.ResourceMetrics, name string, want ...attribute.KeyValue) int64 {
	m, ok := findMetric(rm, name)
	if !ok {
		return 0
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		return 0
	}
	var total int64
	for _, dp := range sum.DataPoints {
		match := true
		for _, kv := range want {
			if v, ok := dp.Attributes.Value(kv.Key); !ok || v != kv.Value {
				match = false
				break
			}
		}
		if match {
			total += dp.Value
		}
	}
	return total
}

func TestMetrics_FetchLifecycle(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordFetchStart(ctx)
	m.RecordFetchStart(ctx)
	m.RecordFetchEnd(ctx, "keyword_search", OutcomeOK, 120*time.Millisecond)

	rm := collect(t, reader)
	if got := sumWhere(rm, "newsfeed.fetch.active"); got != 1 {
		t.Errorf("expected 1 fetch in flight, got %d", got)
	}
	ok := sumWhere(rm, "newsfeed.fetch.total",
		attribute.String("kind", "keyword_search"),
		attribute.String("outcome", OutcomeOK))
	if ok != 1 {
		t.Errorf("expected 1 ok keyword fetch, got %d", ok)
	}

	d, found := findMetric(rm, "newsfeed.fetch.duration")
	if !found {
		t.Fatal("expected newsfeed.fetch.duration to be recorded")
	}
	hist := d.Data.(metricdata.Histogram[float64])
	if len(hist.DataPoints) != 1 || hist.DataPoints[0].Count != 1 {
		t.Errorf("expected one duration sample, got %+v", hist.DataPoints)
	}
}

func TestMetrics_SearchCounters(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordSuperseded(ctx)
	m.RecordSuperseded(ctx)
	m.RecordPublished(ctx, 20)
	m.RecordSearchError(ctx, OutcomeTransportOrDecode)
	m.RecordSearchError(ctx, OutcomeInvalidRequest)

	rm := collect(t, reader)
	if got := sumWhere(rm, "newsfeed.search.superseded"); got != 2 {
		t.Errorf("expected 2 superseded, got %d", got)
	}
	if got := sumWhere(rm, "newsfeed.search.published"); got != 1 {
		t.Errorf("expected 1 published, got %d", got)
	}
	if got := sumWhere(rm, "newsfeed.search.errors", attribute.String("kind", OutcomeInvalidRequest)); got != 1 {
		t.Errorf("expected 1 invalid_request error, got %d", got)
	}
	if got := sumWhere(rm, "newsfeed.search.errors"); got != 2 {
		t.Errorf("expected 2 errors in total, got %d", got)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordFetchStart(ctx)
	m.RecordFetchEnd(ctx, "business", OutcomeOK, time.Millisecond)
	m.RecordSuperseded(ctx)
	m.RecordPublished(ctx, 3)
	m.RecordSearchError(ctx, OutcomeInvalidRequest)
}

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestOperation_Success(t *testing.T) {
	recorder := installRecorder(t)
	m, reader := newTestMetrics(t)

	ctx, op := StartOperation(context.Background(), SpanFetch, "top_headlines", m,
		attribute.Bool(AttrHeadlines, true))
	op.End(ctx, OutcomeOK, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name() != SpanFetch {
		t.Errorf("expected span %q, got %q", SpanFetch, span.Name())
	}
	attrs := attribute.NewSet(span.Attributes()...)
	if v, _ := attrs.Value(AttrRequestKind); v.AsString() != "top_headlines" {
		t.Errorf("expected kind attribute, got %v", v)
	}
	if v, _ := attrs.Value(AttrOutcome); v.AsString() != OutcomeOK {
		t.Errorf("expected outcome attribute, got %v", v)
	}
	if v, ok := attrs.Value(AttrHeadlines); !ok || !v.AsBool() {
		t.Error("expected extra attributes on the span")
	}
	if span.Status().Code == codes.Error {
		t.Error("successful operation must not mark the span failed")
	}

	rm := collect(t, reader)
	if got := sumWhere(rm, "newsfeed.fetch.active"); got != 0 {
		t.Errorf("expected no fetch in flight after End, got %d", got)
	}
	if got := sumWhere(rm, "newsfeed.fetch.total", attribute.String("outcome", OutcomeOK)); got != 1 {
		t.Errorf("expected 1 ok fetch, got %d", got)
	}
}

func TestOperation_Error(t *testing.T) {
	recorder := installRecorder(t)

	ctx, op := StartOperation(context.Background(), SpanFetch, "business", nil)
	op.End(ctx, OutcomeTransportOrDecode, errors.New("connection refused"))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status())
	}
	if len(spans[0].Events()) == 0 || spans[0].Events()[0].Name != "exception" {
		t.Errorf("expected recorded exception event, got %v", spans[0].Events())
	}
}

func TestSetSpanError(t *testing.T) {
	recorder := installRecorder(t)

	ctx, span := StartSpan(context.Background(), SpanSearch)
	SetSpanError(ctx, nil)
	SetSpanError(ctx, errors.New("boom"))
	span.End()

	got := recorder.Ended()[0]
	if got.Status().Code != codes.Error || got.Status().Description != "boom" {
		t.Errorf("unexpected status %+v", got.Status())
	}

	// No span in context: must not panic.
	SetSpanError(context.Background(), errors.New("ignored"))
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.5, "ParentBased"},
	}
	for _, tt := range tests {
		if got := sampler(tt.rate).Description(); !strings.HasPrefix(got, tt.want) {
			t.Errorf("sampler(%v) = %q, want prefix %q", tt.rate, got, tt.want)
		}
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("newsfeed", "1.2.3", "test")
	if err != nil {
		t.Fatalf("newResource failed: %v", err)
	}
	set := res.Set()
	if v, _ := set.Value("service.name"); v.AsString() != "newsfeed" {
		t.Errorf("expected service.name newsfeed, got %v", v)
	}
	if v, _ := set.Value("environment"); v.AsString() != "test" {
		t.Errorf("expected environment test, got %v", v)
	}
}

func TestConfig_DefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" || cfg.SampleRate != 1.0 || cfg.MetricInterval != 15*time.Second {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}

	cfg.SampleRate = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for sample rate above 1")
	}
}

func TestComponent_Disabled(t *testing.T) {
	c := NewComponent(Config{}, "newsfeed", "dev", "test", logger.Nop())
	ctx := context.Background()

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	h := c.Health(ctx)
	if h.Status != component.StatusHealthy || h.Message != "export disabled" {
		t.Errorf("unexpected health %+v", h)
	}
	if err := c.Stop(ctx); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
	if d := c.Describe(); d.Details != "export disabled" {
		t.Errorf("unexpected description %+v", d)
	}
}

func TestComponent_EnabledExportsToCollector(t *testing.T) {
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer collector.Close()

	prevTP, prevMP := otel.GetTracerProvider(), otel.GetMeterProvider()
	defer func() {
		otel.SetTracerProvider(prevTP)
		otel.SetMeterProvider(prevMP)
	}()

	cfg := Config{
		Enabled:  true,
		Endpoint: strings.TrimPrefix(collector.URL, "http://"),
		Insecure: true,
	}
	c := NewComponent(cfg, "newsfeed", "dev", "test", logger.Nop())
	ctx := context.Background()

	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %+v", h)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after start, got %+v", h)
	}
	if !strings.Contains(c.Describe().Details, cfg.Endpoint) {
		t.Errorf("expected endpoint in description, got %q", c.Describe().Details)
	}

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Stop(stopCtx); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}
