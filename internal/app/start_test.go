package app_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vk/vesselgo/codecs/jsonmsg"
	"github.com/vk/vesselgo/internal/app"
	"github.com/vk/vesselgo/internal/bus"
	"github.com/vk/vesselgo/internal/codec"
	"github.com/vk/vesselgo/internal/config"
	"github.com/vk/vesselgo/internal/deploy"
	"github.com/vk/vesselgo/internal/promise"
)

// staticLoader hands a prepared model to the app, standing in for the HCL
// loader.
type staticLoader struct {
	model *config.Model
}

func (l staticLoader) Load(ctx context.Context, path string) (*config.Model, error) {
	return l.model, nil
}

// fakeProcess counts termination requests.
type fakeProcess struct {
	terminations atomic.Int32
}

func (p *fakeProcess) Terminate() {
	p.terminations.Add(1)
}

// fakeDeployer is a controllable deployment coordinator: the test resolves
// its future whenever it wants.
type fakeDeployer struct {
	mu      sync.Mutex
	invoked int
	promise *promise.Promise[struct{}]
	future  *promise.Future[struct{}]
}

func newFakeDeployer() *fakeDeployer {
	p, f := promise.New[struct{}]()
	return &fakeDeployer{promise: p, future: f}
}

func (d *fakeDeployer) Deploy(ctx context.Context, cfg *config.Model) *promise.Future[struct{}] {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.invoked++
	return d.future
}

func (d *fakeDeployer) invocations() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.invoked
}

// recordingBus captures registered codecs and ignores traffic.
type recordingBus struct {
	mu     sync.Mutex
	codecs []bus.Codec
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}

func (b *recordingBus) RegisterCodec(c bus.Codec) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.codecs = append(b.codecs, c)
	return nil
}

func (b *recordingBus) Publish(ctx context.Context, address, codecName string, body any) error {
	return nil
}

func (b *recordingBus) Subscribe(address string, h bus.Handler) (bus.Subscription, error) {
	return noopSubscription{}, nil
}

func (b *recordingBus) registered() []bus.Codec {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]bus.Codec(nil), b.codecs...)
}

// fixture wires an App around controllable fakes.
type fixture struct {
	app      *app.App
	bus      *recordingBus
	deployer *fakeDeployer
	process  *fakeProcess
}

func setup(t *testing.T, model *config.Model) *fixture {
	t.Helper()

	appConfig, err := app.NewConfig(app.Config{ConfigPath: "static", LogFormat: "text"})
	require.NoError(t, err)

	fx := &fixture{
		bus:      &recordingBus{},
		deployer: newFakeDeployer(),
		process:  &fakeProcess{},
	}
	fx.app, _ = app.SetupAppTest(t, appConfig, staticLoader{model},
		app.WithBus(fx.bus),
		app.WithDeployer(fx.deployer),
		app.WithProcessHandle(fx.process),
		app.WithModules(&jsonmsg.Module{}),
	)
	return fx
}

func awaitResolution(t *testing.T, f *promise.Future[struct{}]) error {
	t.Helper()
	select {
	case <-f.Done():
		return f.Err()
	case <-time.After(2 * time.Second):
		t.Fatal("readiness signal never resolved")
		return nil
	}
}

func boolPtr(b bool) *bool { return &b }

func TestStartDefaultsAndDeploySucceeds(t *testing.T) {
	t.Parallel()

	// Scenario: config {}, deploy succeeds.
	fx := setup(t, &config.Model{})
	started, readiness := promise.New[struct{}]()

	fx.app.Start(context.Background(), started)
	fx.deployer.promise.Complete(struct{}{})

	require.NoError(t, awaitResolution(t, readiness))
	require.Equal(t, int32(0), fx.process.terminations.Load())
	require.Equal(t, 1, fx.deployer.invocations())
	require.Equal(t, app.PhaseStarted, fx.app.Phase())
}

func TestStartDefaultsAndDeployFails(t *testing.T) {
	t.Parallel()

	// Scenario: config {}, deploy fails — abortOnFailure defaults to true.
	fx := setup(t, &config.Model{})
	started, readiness := promise.New[struct{}]()
	cause := errors.New("failure")

	fx.app.Start(context.Background(), started)
	fx.deployer.promise.Fail(&deploy.Error{Verticle: "worker", Err: cause})

	err := awaitResolution(t, readiness)
	require.ErrorIs(t, err, cause)
	require.Equal(t, int32(1), fx.process.terminations.Load())
	require.Equal(t, app.PhaseFailed, fx.app.Phase())
}

func TestStartWithoutAbortAndDeployFails(t *testing.T) {
	t.Parallel()

	// Scenario: config {abortOnFailure: false}, deploy fails — the service
	// is degraded but alive.
	fx := setup(t, &config.Model{AbortOnFailure: boolPtr(false)})
	started, readiness := promise.New[struct{}]()

	fx.app.Start(context.Background(), started)
	fx.deployer.promise.Fail(errors.New("failure"))

	require.Error(t, awaitResolution(t, readiness))
	require.Equal(t, int32(0), fx.process.terminations.Load())
	require.Equal(t, app.PhaseFailed, fx.app.Phase())
}

func TestStartUnresolvableCodecAborts(t *testing.T) {
	t.Parallel()

	// Scenario: config {messageCodecs: ["unresolvable.Type"]} — deployment
	// never begins.
	fx := setup(t, &config.Model{MessageCodecs: []string{"unresolvable.Type"}})
	started, readiness := promise.New[struct{}]()

	fx.app.Start(context.Background(), started)

	err := awaitResolution(t, readiness)
	var regErr *codec.RegistrationError
	require.ErrorAs(t, err, &regErr)
	require.Equal(t, "unresolvable.Type", regErr.Identifier)
	require.Equal(t, int32(1), fx.process.terminations.Load())
	require.Equal(t, 0, fx.deployer.invocations())
	require.Equal(t, app.PhaseAborted, fx.app.Phase())
}

func TestStartUnresolvableCodecIgnoredWithoutAbort(t *testing.T) {
	t.Parallel()

	// Scenario: config {abortOnFailure: false, messageCodecs:
	// ["unresolvable.Type"]}, deploy succeeds.
	fx := setup(t, &config.Model{
		AbortOnFailure: boolPtr(false),
		MessageCodecs:  []string{"unresolvable.Type"},
	})
	started, readiness := promise.New[struct{}]()

	fx.app.Start(context.Background(), started)
	fx.deployer.promise.Complete(struct{}{})

	require.NoError(t, awaitResolution(t, readiness))
	require.Equal(t, int32(0), fx.process.terminations.Load())
	require.Empty(t, fx.bus.registered())
	require.Equal(t, 1, fx.deployer.invocations())
}

func TestStartRegistersConfiguredCodec(t *testing.T) {
	t.Parallel()

	for _, abort := range []bool{true, false} {
		t.Run(map[bool]string{true: "abort", false: "no-abort"}[abort], func(t *testing.T) {
			t.Parallel()

			fx := setup(t, &config.Model{
				AbortOnFailure: boolPtr(abort),
				MessageCodecs:  []string{"json"},
			})
			started, readiness := promise.New[struct{}]()

			fx.app.Start(context.Background(), started)
			fx.deployer.promise.Complete(struct{}{})

			require.NoError(t, awaitResolution(t, readiness))
			registered := fx.bus.registered()
			require.Len(t, registered, 1)
			require.Equal(t, "json", registered[0].Name())
		})
	}
}

func TestStartHandlesAlreadyResolvedDeployment(t *testing.T) {
	t.Parallel()

	// The deployment future may resolve before the orchestrator gets to
	// observe it; the outcome must be identical.
	fx := setup(t, &config.Model{})
	fx.deployer.promise.Complete(struct{}{})
	started, readiness := promise.New[struct{}]()

	fx.app.Start(context.Background(), started)

	require.NoError(t, awaitResolution(t, readiness))
	require.Equal(t, app.PhaseStarted, fx.app.Phase())
}
