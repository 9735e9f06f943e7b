package app

import "sync"

// ProcessHandle represents the running process to the orchestrator. Its one
// relevant operation is requesting termination; the orchestrator never
// observes a result from it.
type ProcessHandle interface {
	Terminate()
}

// ShutdownHandle is the production ProcessHandle. Terminate closes a
// channel the entrypoint selects on, so the readiness signal can still be
// resolved after termination is requested and the process exits through a
// single well-defined path.
type ShutdownHandle struct {
	once sync.Once
	done chan struct{}
}

// NewShutdownHandle creates an un-terminated handle.
func NewShutdownHandle() *ShutdownHandle {
	return &ShutdownHandle{done: make(chan struct{})}
}

// Terminate requests process termination. Safe to call more than once.
func (h *ShutdownHandle) Terminate() {
	h.once.Do(func() { close(h.done) })
}

// Done is closed once termination has been requested.
func (h *ShutdownHandle) Done() <-chan struct{} {
	return h.done
}
