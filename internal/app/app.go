package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/vesselgo/internal/bus"
	"github.com/vk/vesselgo/internal/codec"
	"github.com/vk/vesselgo/internal/config"
	"github.com/vk/vesselgo/internal/ctxlog"
	"github.com/vk/vesselgo/internal/deploy"
	"github.com/vk/vesselgo/internal/inmemorybus"
	"github.com/vk/vesselgo/internal/promise"
	"github.com/vk/vesselgo/internal/verticle"
)

// Module contributes codec factories and verticle factories to an App. A
// module registers what it has and ignores the registry it has nothing for.
type Module interface {
	Register(codecs *codec.Registry, verticles *verticle.Registry)
}

// Deployer is the narrow surface of the deployment coordinator the
// orchestrator consumes: one opaque asynchronous operation per startup.
type Deployer interface {
	Deploy(ctx context.Context, cfg *config.Model) *promise.Future[struct{}]
}

// App encapsulates the service's dependencies, configuration, and bootstrap
// lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *config.Model
	codecs    *codec.Registry
	verticles *verticle.Registry
	bus       bus.Bus
	deployer  Deployer
	proc      ProcessHandle
	modules   []Module

	phase phaseTracker
}

// Option customizes an App, mainly so tests can substitute collaborators.
type Option func(*App)

// WithBus replaces the default in-memory bus.
func WithBus(b bus.Bus) Option {
	return func(a *App) { a.bus = b }
}

// WithDeployer replaces the default deployment coordinator.
func WithDeployer(d Deployer) Option {
	return func(a *App) { a.deployer = d }
}

// WithProcessHandle replaces the default shutdown handle.
func WithProcessHandle(p ProcessHandle) Option {
	return func(a *App) { a.proc = p }
}

// WithModules replaces the builtin module set.
func WithModules(mods ...Module) Option {
	return func(a *App) { a.modules = mods }
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and
// registries. A configuration that cannot be loaded is a fatal startup
// error and panics; the entrypoint recovers it into a clean exit.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, opts ...Option) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cfgModel, err := loader.Load(ctx, appConfig.ConfigPath)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	a := &App{
		outW:      outW,
		logger:    logger,
		config:    cfgModel,
		codecs:    codec.New(),
		verticles: verticle.NewRegistry(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.modules == nil {
		a.modules = coreModules
	}
	for _, mod := range a.modules {
		mod.Register(a.codecs, a.verticles)
	}
	logger.Debug("All modules registered.",
		"modules", len(a.modules),
		"codec_factories", a.codecs.Len(),
		"verticle_factories", a.verticles.Len())

	if a.bus == nil {
		a.bus = inmemorybus.New()
	}
	if a.proc == nil {
		a.proc = NewShutdownHandle()
	}
	if a.deployer == nil {
		a.deployer = deploy.NewCoordinator(a.verticles, a.bus)
	}

	return a
}

// Bus returns the application's communication bus.
func (a *App) Bus() bus.Bus {
	return a.bus
}

// Registries returns the codec and verticle registries. This is primarily
// for testing.
func (a *App) Registries() (*codec.Registry, *verticle.Registry) {
	return a.codecs, a.verticles
}

// Shutdown stops any deployed verticles, when the deployer supports it.
func (a *App) Shutdown(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	if s, ok := a.deployer.(interface{ Shutdown(context.Context) error }); ok {
		return s.Shutdown(ctx)
	}
	return nil
}
