package sse

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/newsfeed/component"
	"github.com/kbukum/newsfeed/logger"
)

// Component runs a Hub and its feeds under the component lifecycle.
type Component struct {
	hub   *Hub
	path  string
	feeds []Feed

	mu      sync.Mutex
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	running bool
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates an SSE component serving path and fed by feeds.
func NewComponent(path string, log *logger.Logger, feeds ...Feed) *Component {
	return &Component{
		hub:   NewHub(log),
		path:  path,
		feeds: feeds,
	}
}

// Hub returns the underlying Hub.
func (c *Component) Hub() *Hub { return c.hub }

// Name returns the component name.
func (c *Component) Name() string { return "sse" }

// Start launches the hub loop and one goroutine per feed.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return nil
	}

	feedCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel
	c.wg.Add(1 + len(c.feeds))
	go func() {
		defer c.wg.Done()
		c.hub.Run()
	}()
	for _, feed := range c.feeds {
		go func() {
			defer c.wg.Done()
			feed(feedCtx, c.hub)
		}()
	}
	c.running = true
	return nil
}

// Stop cancels the feeds, closes every client and waits for the goroutines.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return nil
	}
	c.cancel()
	c.hub.Stop()
	c.wg.Wait()
	c.running = false
	return nil
}

// Health returns the health status of the SSE hub.
func (c *Component) Health(_ context.Context) component.Health {
	c.mu.Lock()
	running := c.running
	c.mu.Unlock()
	if !running {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d clients connected", c.hub.GetClientCount()),
	}
}

// Describe returns infrastructure summary info for the bootstrap display.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Event Stream",
		Type:    "sse",
		Details: fmt.Sprintf("path=%s feeds=%d", c.path, len(c.feeds)),
	}
}
