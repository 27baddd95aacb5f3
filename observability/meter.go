package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/newsfeed/logger"
)

// Fetch outcomes recorded on newsfeed.fetch.total.
const (
	OutcomeOK                = "ok"
	OutcomeInvalidRequest    = "invalid_request"
	OutcomeTransportOrDecode = "transport_or_decode"
	OutcomeCanceled          = "canceled"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider must be shut down on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments for news fetches and the search pipeline.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	fetchTotal    metric.Int64Counter
	fetchDuration metric.Float64Histogram
	fetchActive   metric.Int64UpDownCounter
	superseded    metric.Int64Counter
	published     metric.Int64Counter
	articles      metric.Int64Histogram
	searchErrors  metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	fetchTotal, err := meter.Int64Counter("newsfeed.fetch.total",
		metric.WithDescription("News API fetches by request kind and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating newsfeed.fetch.total counter: %w", err)
	}

	fetchDuration, err := meter.Float64Histogram("newsfeed.fetch.duration",
		metric.WithDescription("Duration of news API fetches in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating newsfeed.fetch.duration histogram: %w", err)
	}

	fetchActive, err := meter.Int64UpDownCounter("newsfeed.fetch.active",
		metric.WithDescription("News API fetches in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating newsfeed.fetch.active gauge: %w", err)
	}

	superseded, err := meter.Int64Counter("newsfeed.search.superseded",
		metric.WithDescription("Search fetches cancelled by a newer query"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating newsfeed.search.superseded counter: %w", err)
	}

	published, err := meter.Int64Counter("newsfeed.search.published",
		metric.WithDescription("Result lists published by the search pipeline"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating newsfeed.search.published counter: %w", err)
	}

	articles, err := meter.Int64Histogram("newsfeed.search.articles",
		metric.WithDescription("Articles per published result list"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating newsfeed.search.articles histogram: %w", err)
	}

	searchErrors, err := meter.Int64Counter("newsfeed.search.errors",
		metric.WithDescription("Search fetch failures replaced by an empty list"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating newsfeed.search.errors counter: %w", err)
	}

	return &Metrics{
		fetchTotal:    fetchTotal,
		fetchDuration: fetchDuration,
		fetchActive:   fetchActive,
		superseded:    superseded,
		published:     published,
		articles:      articles,
		searchErrors:  searchErrors,
	}, nil
}

// RecordFetchStart increments the in-flight fetch count.
func (m *Metrics) RecordFetchStart(ctx context.Context) {
	if m == nil {
		return
	}
	m.fetchActive.Add(ctx, 1)
}

// RecordFetchEnd decrements in-flight fetches and records the finished fetch.
func (m *Metrics) RecordFetchEnd(ctx context.Context, kind, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.fetchActive.Add(ctx, -1)
	m.fetchTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	))
	m.fetchDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("kind", kind),
	))
}

// RecordSuperseded counts a fetch cancelled because a newer query started.
func (m *Metrics) RecordSuperseded(ctx context.Context) {
	if m == nil {
		return
	}
	m.superseded.Add(ctx, 1)
}

// RecordPublished counts a published result list and its size.
func (m *Metrics) RecordPublished(ctx context.Context, articles int) {
	if m == nil {
		return
	}
	m.published.Add(ctx, 1)
	m.articles.Record(ctx, int64(articles))
}

// RecordSearchError counts a failed search fetch by error kind.
func (m *Metrics) RecordSearchError(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.searchErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
