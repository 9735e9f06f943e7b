package app

import (
	"context"
	"sync"

	"github.com/vk/vesselgo/internal/ctxlog"
	"github.com/vk/vesselgo/internal/promise"
)

// Phase is a state of the bootstrap pipeline. Exactly one of the terminal
// phases (Started, Failed, Aborted) is reached per invocation of Start.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRegisteringCodecs
	PhaseDeploying
	PhaseStarted
	PhaseFailed
	PhaseAborted
)

// String implements fmt.Stringer for Phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRegisteringCodecs:
		return "registering-codecs"
	case PhaseDeploying:
		return "deploying"
	case PhaseStarted:
		return "started"
	case PhaseFailed:
		return "failed"
	case PhaseAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// phaseTracker guards the current phase; the deployment outcome arrives on
// another goroutine than the one that ran codec registration.
type phaseTracker struct {
	mu      sync.Mutex
	current Phase
}

func (t *phaseTracker) set(p Phase) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = p
}

func (t *phaseTracker) get() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Phase reports the bootstrap pipeline's current state.
func (a *App) Phase() Phase {
	return a.phase.get()
}

// Start runs the bootstrap sequence once: register the configured message
// codecs on the bus, then deploy the configured verticles. The readiness
// promise is resolved exactly once, after the terminal phase is reached.
//
// Failures are classified by the configured abort-on-failure policy
// (default true). A fatal failure requests process termination before the
// promise is failed; a non-fatal codec failure is logged and skipped, and a
// non-fatal deployment failure fails the promise but leaves the process
// alive. Neither phase is ever retried, and nothing already registered or
// deployed is rolled back.
//
// Start returns after deployment has begun; the deployment outcome is
// handled asynchronously when its future resolves.
func (a *App) Start(ctx context.Context, started *promise.Promise[struct{}]) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	abortOnFailure := a.config.EffectiveAbortOnFailure()

	a.phase.set(PhaseRegisteringCodecs)
	err := a.codecs.RegisterCodecs(ctx, a.bus, a.config.MessageCodecs, abortOnFailure)
	if err != nil {
		// Only reachable under abort-on-failure: deployment never begins.
		a.phase.set(PhaseAborted)
		a.logger.Error("Message codec registration failed, terminating.", "error", err)
		a.proc.Terminate()
		started.Fail(err)
		return
	}

	a.phase.set(PhaseDeploying)
	a.logger.Info("🚀 Deploying verticles...", "count", len(a.config.Verticles))
	future := a.deployer.Deploy(ctx, a.config)

	go func() {
		<-future.Done()
		if err := future.Err(); err != nil {
			a.phase.set(PhaseFailed)
			if abortOnFailure {
				a.logger.Error("Deployment failed, terminating.", "error", err)
				a.proc.Terminate()
			} else {
				a.logger.Error("Deployment failed, continuing degraded.", "error", err)
			}
			started.Fail(err)
			return
		}

		a.phase.set(PhaseStarted)
		a.logger.Info("🏁 Service started.")
		started.Complete(struct{}{})
	}()
}
