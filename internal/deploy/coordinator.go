package deploy

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/vesselgo/internal/bus"
	"github.com/vk/vesselgo/internal/config"
	"github.com/vk/vesselgo/internal/ctxlog"
	"github.com/vk/vesselgo/internal/promise"
	"github.com/vk/vesselgo/internal/verticle"
)

// Error wraps the cause of a failed deployment, naming the verticle that
// failed first.
type Error struct {
	Verticle string
	Err      error
}

// Error implements the error interface for Error.
func (e *Error) Error() string {
	return fmt.Sprintf("deploying verticle %q: %v", e.Verticle, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// instance is one started verticle, kept for shutdown.
type instance struct {
	name     string
	verticle verticle.Verticle
}

// Coordinator deploys the configured verticles onto the bus. From the
// orchestrator's point of view a deployment is a single opaque asynchronous
// operation: Deploy returns a one-shot future that resolves once every
// configured instance has started, or with the first failure.
type Coordinator struct {
	registry *verticle.Registry
	bus      bus.Bus

	mu      sync.Mutex
	started []instance
}

// NewCoordinator creates a coordinator resolving verticle names through
// registry and handing the given bus to every instance.
func NewCoordinator(registry *verticle.Registry, b bus.Bus) *Coordinator {
	return &Coordinator{registry: registry, bus: b}
}

// Deploy starts every verticle named in cfg, in dependency order, honoring
// each definition's instance count. Verticles started before a failure are
// not rolled back; Shutdown stops them.
func (c *Coordinator) Deploy(ctx context.Context, cfg *config.Model) *promise.Future[struct{}] {
	p, f := promise.New[struct{}]()
	go c.run(ctx, cfg, p)
	return f
}

func (c *Coordinator) run(ctx context.Context, cfg *config.Model, p *promise.Promise[struct{}]) {
	logger := ctxlog.FromContext(ctx)

	order, err := deployOrder(cfg.Verticles)
	if err != nil {
		p.Fail(&Error{Verticle: "", Err: err})
		return
	}

	for _, name := range order {
		def := cfg.Verticles[name]

		factory, err := c.registry.Resolve(name)
		if err != nil {
			p.Fail(&Error{Verticle: name, Err: err})
			return
		}

		for i := 0; i < def.Instances; i++ {
			core := verticle.Core{Bus: c.bus, Name: name, Config: def.Config}
			v, err := factory(ctx, core)
			if err == nil {
				err = v.Start(ctx)
			}
			if err != nil {
				p.Fail(&Error{Verticle: name, Err: err})
				return
			}

			c.mu.Lock()
			c.started = append(c.started, instance{name: name, verticle: v})
			c.mu.Unlock()
		}
		logger.Info("Verticle deployed.", "name", name, "instances", def.Instances)
	}

	p.Complete(struct{}{})
}

// Shutdown stops every started instance in reverse deployment order. All
// instances are attempted; the first error is returned.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	c.mu.Lock()
	started := c.started
	c.started = nil
	c.mu.Unlock()

	var firstErr error
	for i := len(started) - 1; i >= 0; i-- {
		inst := started[i]
		if err := inst.verticle.Stop(ctx); err != nil {
			logger.Error("Verticle failed to stop cleanly.", "name", inst.name, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("stopping verticle %q: %w", inst.name, err)
			}
		}
	}
	return firstErr
}
