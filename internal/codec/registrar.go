package codec

import (
	"context"
	"fmt"

	"github.com/vk/vesselgo/internal/bus"
	"github.com/vk/vesselgo/internal/ctxlog"
)

// RegistrationError reports a codec identifier that could not be resolved,
// instantiated, or accepted by the bus.
type RegistrationError struct {
	Identifier string
	Err        error
}

// Error implements the error interface for RegistrationError.
func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registering message codec %q: %v", e.Identifier, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// RegisterCodecs instantiates and registers, in listed order, every codec
// identifier in identifiers on the given registry surface.
//
// With abortOnFailure true the first failing identifier stops the loop and
// fails the whole call; codecs registered before it stay registered (no
// rollback). With abortOnFailure false a failing identifier is skipped with
// a warning and the call succeeds. An empty list succeeds trivially.
func (r *Registry) RegisterCodecs(ctx context.Context, target bus.CodecRegistry, identifiers []string, abortOnFailure bool) error {
	logger := ctxlog.FromContext(ctx)

	for _, identifier := range identifiers {
		instance, err := r.Resolve(identifier)
		if err == nil {
			err = target.RegisterCodec(instance)
		}
		if err != nil {
			if abortOnFailure {
				return &RegistrationError{Identifier: identifier, Err: err}
			}
			logger.Warn("Skipping message codec.", "identifier", identifier, "error", err)
			continue
		}
		logger.Debug("Message codec registered.", "identifier", identifier, "name", instance.Name())
	}

	return nil
}
