// Package siobridge provides the builtin "siobridge" verticle: a socket.io
// client that bridges traffic between a bus address and an upstream server.
//
// With emit_event set, payloads published to the bus address are emitted to
// the upstream. With on_event set, events received from the upstream are
// republished on the bus address through the "json" codec. Both directions
// can be active at once.
package siobridge

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/vesselgo/internal/bus"
	"github.com/vk/vesselgo/internal/codec"
	"github.com/vk/vesselgo/internal/ctxlog"
	"github.com/vk/vesselgo/internal/verticle"
)

// Module implements the app module interface for this package.
type Module struct{}

// Verticle holds one upstream socket.io connection.
type Verticle struct {
	bus            bus.Bus
	upstreamURL    string
	namespace      string
	address        string
	emitEvent      string
	onEvent        string
	connectTimeout time.Duration
	insecureTLS    bool

	manager *socket.Manager
	io      *socket.Socket
	sub     bus.Subscription
}

// New is the factory for the siobridge verticle. Config: url (string,
// required), namespace (string, default "/"), address (string, default
// "siobridge"), emit_event (string), on_event (string), connect_timeout
// (string duration, default "10s"), insecure_skip_verify (bool).
func New(ctx context.Context, core verticle.Core) (verticle.Verticle, error) {
	upstreamURL, err := core.Config.String("url", "")
	if err != nil {
		return nil, err
	}
	if upstreamURL == "" {
		return nil, fmt.Errorf("siobridge: config attribute \"url\" is required")
	}
	namespace, err := core.Config.String("namespace", "/")
	if err != nil {
		return nil, err
	}
	address, err := core.Config.String("address", "siobridge")
	if err != nil {
		return nil, err
	}
	emitEvent, err := core.Config.String("emit_event", "")
	if err != nil {
		return nil, err
	}
	onEvent, err := core.Config.String("on_event", "")
	if err != nil {
		return nil, err
	}
	timeoutStr, err := core.Config.String("connect_timeout", "10s")
	if err != nil {
		return nil, err
	}
	connectTimeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("siobridge: parsing connect_timeout: %w", err)
	}
	insecureTLS, err := core.Config.Bool("insecure_skip_verify", false)
	if err != nil {
		return nil, err
	}

	return &Verticle{
		bus:            core.Bus,
		upstreamURL:    upstreamURL,
		namespace:      namespace,
		address:        address,
		emitEvent:      emitEvent,
		onEvent:        onEvent,
		connectTimeout: connectTimeout,
		insecureTLS:    insecureTLS,
	}, nil
}

// Start connects to the upstream and wires both bridge directions. It does
// not return until the initial connection is established or times out.
func (v *Verticle) Start(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("verticle", "siobridge", "url", v.upstreamURL)
	logger.Debug("Connecting to upstream")

	parsedURL, err := url.Parse(v.upstreamURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if v.insecureTLS {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	v.manager = socket.NewManager(baseURL, opts)
	v.io = v.manager.Socket(v.namespace, opts)

	connected := make(chan error, 1)

	v.io.On(types.EventName("connect"), func(...any) {
		logger.Info("Connected to upstream", "namespace", v.namespace, "sid", v.io.Id())
		select {
		case connected <- nil:
		default:
		}
	})

	v.io.On(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect_error: %v", errs)
		if len(errs) > 0 {
			if cause, ok := errs[0].(error); ok {
				err = cause
			}
		}
		select {
		case connected <- err:
		default:
		}
	})

	if v.onEvent != "" {
		v.io.On(types.EventName(v.onEvent), func(data ...any) {
			var body any
			if len(data) > 0 {
				body = data[0]
			}
			if err := v.bus.Publish(ctx, v.address, "json", body); err != nil {
				logger.Error("Failed to republish upstream event on bus", "event", v.onEvent, "error", err)
			}
		})
	}

	v.io.Connect()

	waitCtx, cancel := context.WithTimeout(ctx, v.connectTimeout)
	defer cancel()
	select {
	case <-waitCtx.Done():
		v.io.Disconnect()
		return fmt.Errorf("timed out while waiting for initial connection to %s", v.upstreamURL)
	case err := <-connected:
		if err != nil {
			v.io.Disconnect()
			return fmt.Errorf("connecting to %s: %w", v.upstreamURL, err)
		}
	}

	if v.emitEvent != "" {
		sub, err := v.bus.Subscribe(v.address, func(ctx context.Context, msg bus.Message) {
			v.io.Emit(v.emitEvent, msg.Body)
		})
		if err != nil {
			v.io.Disconnect()
			return err
		}
		v.sub = sub
	}

	return nil
}

// Stop tears the bridge down.
func (v *Verticle) Stop(ctx context.Context) error {
	if v.sub != nil {
		v.sub.Unsubscribe()
	}
	if v.io != nil {
		ctxlog.FromContext(ctx).Debug("Disconnecting upstream socket client")
		v.io.Disconnect()
	}
	return nil
}

// Register registers the verticle factory with the registry.
func (m *Module) Register(_ *codec.Registry, verticles *verticle.Registry) {
	verticles.Register("siobridge", New)
}
