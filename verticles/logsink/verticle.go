// Package logsink provides the builtin "logsink" verticle: it subscribes
// to a bus address and logs every payload delivered there.
package logsink

import (
	"context"

	"github.com/vk/vesselgo/internal/bus"
	"github.com/vk/vesselgo/internal/codec"
	"github.com/vk/vesselgo/internal/ctxlog"
	"github.com/vk/vesselgo/internal/verticle"
)

// Module implements the app module interface for this package.
type Module struct{}

// Verticle logs bus traffic on one address.
type Verticle struct {
	bus     bus.Bus
	address string

	sub bus.Subscription
}

// New is the factory for the logsink verticle. Config: address (string,
// default "log").
func New(ctx context.Context, core verticle.Core) (verticle.Verticle, error) {
	address, err := core.Config.String("address", "log")
	if err != nil {
		return nil, err
	}
	return &Verticle{bus: core.Bus, address: address}, nil
}

// Start subscribes to the configured address.
func (v *Verticle) Start(ctx context.Context) error {
	sub, err := v.bus.Subscribe(v.address, func(ctx context.Context, msg bus.Message) {
		ctxlog.FromContext(ctx).Info("logsink message", "address", msg.Address, "codec", msg.Codec, "body", msg.Body)
	})
	if err != nil {
		return err
	}
	v.sub = sub
	ctxlog.FromContext(ctx).Debug("Log sink subscribed.", "address", v.address)
	return nil
}

// Stop unsubscribes from the address.
func (v *Verticle) Stop(ctx context.Context) error {
	if v.sub != nil {
		v.sub.Unsubscribe()
	}
	return nil
}

// Register registers the verticle factory with the registry.
func (m *Module) Register(_ *codec.Registry, verticles *verticle.Registry) {
	verticles.Register("logsink", New)
}
