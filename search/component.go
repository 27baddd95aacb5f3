package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/newsfeed/component"
	"github.com/kbukum/newsfeed/logger"
	"github.com/kbukum/newsfeed/newsapi"
)

// Component runs a ViewModel for the process lifetime.
type Component struct {
	vm  *ViewModel
	cfg Config
	log *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	errCh  chan error
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent wraps vm. cfg.LoadOnStart queues the top headlines on Start.
func NewComponent(vm *ViewModel, log *logger.Logger) *Component {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Component{vm: vm, cfg: vm.cfg, log: log.WithComponent("search")}
}

func (c *Component) Name() string { return "search" }

// ViewModel returns the wrapped view model.
func (c *Component) ViewModel() *ViewModel { return c.vm }

// Start launches the pipeline in the background.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel
	c.errCh = make(chan error, 1)
	go func() {
		c.errCh <- c.vm.Run(runCtx)
	}()

	if c.cfg.LoadOnStart {
		if err := c.vm.Load(ctx, newsapi.TopHeadlines()); err != nil {
			return fmt.Errorf("search: initial load: %w", err)
		}
		c.log.Info("initial top headlines queued")
	}
	return nil
}

// Stop cancels the pipeline and waits for it to exit.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	cancel, errCh := c.cancel, c.errCh
	c.mu.Unlock()
	if cancel == nil {
		return nil
	}

	cancel()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return fmt.Errorf("search: stop: %w", ctx.Err())
	}
}

// Health is unhealthy while the pipeline is not running and degraded when
// the latest publish replaced a failed fetch.
func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if !c.vm.Running() {
		h.Status = component.StatusUnhealthy
		h.Message = "pipeline not running"
		return h
	}
	if last := c.vm.Snapshot().LastError; last != nil {
		h.Status = component.StatusDegraded
		h.Message = fmt.Sprintf("last fetch failed: %s", last.Kind)
	}
	return h
}

// Describe returns the component description for the startup summary.
func (c *Component) Describe() component.Description {
	scope := "business"
	if c.vm.Headlines() {
		scope = "top headlines"
	}
	return component.Description{
		Name:    "Search",
		Type:    "pipeline",
		Details: fmt.Sprintf("debounce=%s scope=%s", c.cfg.Debounce, scope),
	}
}
