package newsapi

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/newsfeed/httpclient"
	"github.com/kbukum/newsfeed/logger"
	"github.com/kbukum/newsfeed/observability"
)

// Fetcher fetches the articles for one request.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) ([]Article, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, req Request) ([]Article, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, req Request) ([]Article, error) {
	return f(ctx, req)
}

// Client talks to newsapi.org. Each Fetch performs exactly one GET with no
// retry and no caching.
type Client struct {
	endpoint Endpoint
	adapter  *httpclient.Adapter
	log      *logger.Logger
	metrics  *observability.Metrics
}

var _ Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the adapter used for requests. The adapter's base URL
// is ignored; request URLs always come from the client config.
func WithHTTPClient(a *httpclient.Adapter) Option {
	return func(c *Client) { c.adapter = a }
}

// WithLogger sets the client logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics records fetches on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a client from cfg.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("newsapi: %w", err)
	}

	c := &Client{
		endpoint: NewEndpoint(cfg),
		log:      logger.GetGlobalLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithComponent(ServiceName)

	if c.adapter == nil {
		a, err := httpclient.New(cfg.HTTPConfig())
		if err != nil {
			return nil, fmt.Errorf("newsapi: %w", err)
		}
		c.adapter = a
	}
	return c, nil
}

// Endpoint returns the endpoint requests are resolved against.
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// Fetch resolves req and performs one GET. A request that cannot be turned
// into a URL fails with an invalid request error without network I/O; every
// other failure is a transport or decode error.
func (c *Client) Fetch(ctx context.Context, req Request) ([]Article, error) {
	ctx, op := observability.StartOperation(ctx, observability.SpanFetch, req.Kind.String(), c.metrics,
		attribute.Bool(observability.AttrHeadlines, req.Headlines))

	articles, err := c.fetch(ctx, req)

	outcome := observability.OutcomeOK
	if err != nil {
		outcome = ErrorKind(err)
	} else {
		op.Span().SetAttributes(attribute.Int(observability.AttrArticles, len(articles)))
	}
	op.End(ctx, outcome, err)

	fields := logger.Fields(
		"request", req.String(),
		"duration_ms", op.Duration().Milliseconds(),
	)
	switch outcome {
	case observability.OutcomeOK:
		fields["articles"] = len(articles)
		c.log.WithContext(ctx).Debug("fetch completed", fields)
	case observability.OutcomeCanceled:
		c.log.WithContext(ctx).Debug("fetch canceled", fields)
	default:
		fields["kind"] = outcome
		fields["reason"] = Reason(err)
		c.log.WithContext(ctx).WithError(err).Warn("fetch failed", fields)
	}
	return articles, err
}

func (c *Client) fetch(ctx context.Context, req Request) ([]Article, error) {
	target, query, err := c.endpoint.Resolve(req)
	if err != nil {
		return nil, err
	}

	params := make(map[string]string, len(query))
	for k := range query {
		params[k] = query.Get(k)
	}

	resp, _, err := httpclient.Get[envelope](c.adapter, ctx, target,
		httpclient.WithQuery(params),
		httpclient.WithRequestAuth(httpclient.APIKeyAuthQuery(c.endpoint.APIKey, apiKeyParam)),
	)
	if err != nil {
		return nil, translate(ctx, err)
	}
	return resp.Data.articles()
}
