package newsapi

import (
	"context"
	"sync"

	"github.com/kbukum/newsfeed/component"
	"github.com/kbukum/newsfeed/errors"
	"github.com/kbukum/newsfeed/httpclient"
)

// Component manages the news API transport and exposes the client as a
// Fetcher once started.
type Component struct {
	cfg  Config
	opts []Option
	http *httpclient.Component

	mu     sync.RWMutex
	client *Client
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
	_ Fetcher               = (*Component)(nil)
)

// NewComponent creates the news API component.
func NewComponent(cfg Config, opts ...Option) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg:  cfg,
		opts: opts,
		http: httpclient.NewComponent(cfg.HTTPConfig()),
	}
}

func (c *Component) Name() string { return ServiceName }

// Start creates the transport and the client.
func (c *Component) Start(ctx context.Context) error {
	if err := c.http.Start(ctx); err != nil {
		return err
	}
	opts := append([]Option{WithHTTPClient(c.http.Adapter())}, c.opts...)
	client, err := NewClient(c.cfg, opts...)
	if err != nil {
		_ = c.http.Stop(ctx)
		return err
	}

	c.mu.Lock()
	c.client = client
	c.mu.Unlock()
	return nil
}

func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	c.client = nil
	c.mu.Unlock()
	return c.http.Stop(ctx)
}

// Health follows the transport breaker and reports a missing API key as degraded.
func (c *Component) Health(ctx context.Context) component.Health {
	h := c.http.Health(ctx)
	if h.Status == component.StatusHealthy && c.cfg.APIKey == "" {
		h.Status = component.StatusDegraded
		h.Message = "api key not configured"
	}
	return h
}

// Describe returns the component description for the startup summary.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "News API",
		Type:    "http-adapter",
		Details: c.cfg.BaseURL,
	}
}

// Client returns the client, or nil before Start.
func (c *Component) Client() *Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

// Fetch delegates to the client. It fails with a service unavailable error
// while the component is stopped.
func (c *Component) Fetch(ctx context.Context, req Request) ([]Article, error) {
	client := c.Client()
	if client == nil {
		return nil, errors.ServiceUnavailable("news API client")
	}
	return client.Fetch(ctx, req)
}
