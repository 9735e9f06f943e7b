package verticle

import (
	"context"

	"github.com/vk/vesselgo/internal/bus"
)

// Verticle is an independently deployable unit of the service. Start is
// called once per instance during deployment; Stop is called at most once,
// during shutdown, for instances whose Start succeeded.
type Verticle interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Core is handed to every factory: the shared communication bus plus the
// instance's own slice of the startup configuration.
type Core struct {
	Bus    bus.Bus
	Name   string
	Config Config
}

// Factory builds one verticle instance. A factory is invoked once per
// configured instance, so stateful verticles get isolated state.
type Factory func(ctx context.Context, core Core) (Verticle, error)
