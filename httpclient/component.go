package httpclient

import (
	"context"

	"github.com/kbukum/newsfeed/component"
	"github.com/kbukum/newsfeed/resilience"
)

// Component wraps an Adapter with lifecycle management so the upstream
// shows up in health checks.
type Component struct {
	adapter *Adapter
	config  Config
	opts    []Option
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a new HTTP adapter component.
// The adapter is created in Start.
func NewComponent(cfg Config, opts ...Option) *Component {
	cfg.ApplyDefaults()
	return &Component{config: cfg, opts: opts}
}

// Name returns the component name.
func (c *Component) Name() string {
	return c.config.Name
}

// Start initializes the HTTP adapter.
func (c *Component) Start(_ context.Context) error {
	a, err := New(c.config, c.opts...)
	if err != nil {
		return err
	}
	c.adapter = a
	return nil
}

// Stop releases idle connections.
func (c *Component) Stop(_ context.Context) error {
	if c.adapter != nil {
		c.adapter.Close()
	}
	return nil
}

// Health reports unhealthy while the breaker is open and degraded while it probes.
func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if c.adapter == nil {
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
		return h
	}
	switch c.adapter.BreakerState() {
	case resilience.StateOpen:
		h.Status = component.StatusUnhealthy
		h.Message = "circuit open"
	case resilience.StateHalfOpen:
		h.Status = component.StatusDegraded
		h.Message = "circuit half-open"
	}
	return h
}

// Describe returns the component description for the startup summary.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    c.Name(),
		Type:    "http-adapter",
		Details: c.config.BaseURL,
	}
}

// Adapter returns the underlying HTTP adapter. Valid after Start.
func (c *Component) Adapter() *Adapter {
	return c.adapter
}
