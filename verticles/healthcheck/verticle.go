// Package healthcheck provides the builtin "healthcheck" verticle: a small
// HTTP server answering GET /health while the service is running.
package healthcheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/vk/vesselgo/internal/codec"
	"github.com/vk/vesselgo/internal/ctxlog"
	"github.com/vk/vesselgo/internal/verticle"
)

// Module implements the app module interface for this package.
type Module struct{}

// Verticle serves the health endpoint. Binding happens in Start so a taken
// port fails the deployment instead of a background goroutine.
type Verticle struct {
	port int

	listener net.Listener
	server   *http.Server
}

// New is the factory for the healthcheck verticle. Config: port (number,
// default 8091; 0 picks a free port).
func New(ctx context.Context, core verticle.Core) (verticle.Verticle, error) {
	port, err := core.Config.Int("port", 8091)
	if err != nil {
		return nil, err
	}
	return &Verticle{port: port}, nil
}

// Start binds the listener and serves /health in the background.
func (v *Verticle) Start(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", v.port))
	if err != nil {
		return fmt.Errorf("binding health check listener: %w", err)
	}
	v.listener = ln

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	})

	v.server = &http.Server{Handler: mux}
	go func() {
		logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://%s/health", ln.Addr()))
		// Serve returns ErrServerClosed on graceful shutdown; anything else
		// is a real failure.
		if err := v.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health check server failed unexpectedly", "error", err)
		}
	}()
	return nil
}

// Stop shuts the server down gracefully.
func (v *Verticle) Stop(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if v.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	logger.Info("🩺 Shutting down health check server...")
	return v.server.Shutdown(shutdownCtx)
}

// Addr reports the bound listener address. Only valid after Start.
func (v *Verticle) Addr() net.Addr {
	if v.listener == nil {
		return nil
	}
	return v.listener.Addr()
}

// Register registers the verticle factory with the registry.
func (m *Module) Register(_ *codec.Registry, verticles *verticle.Registry) {
	verticles.Register("healthcheck", New)
}
