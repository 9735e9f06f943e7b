package codec_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/vesselgo/internal/bus"
	"github.com/vk/vesselgo/internal/codec"
)

// stubCodec is a minimal bus.Codec for registration tests.
type stubCodec struct {
	name string
}

func (c stubCodec) Name() string               { return c.name }
func (c stubCodec) Encode(any) ([]byte, error) { return nil, errors.New("not a functional codec") }
func (c stubCodec) Decode([]byte) (any, error) { return nil, errors.New("not a functional codec") }

// recordingRegistry captures every codec the registrar hands to the bus.
type recordingRegistry struct {
	registered []bus.Codec
	failWith   error
}

func (r *recordingRegistry) RegisterCodec(c bus.Codec) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.registered = append(r.registered, c)
	return nil
}

func newTestRegistry(t *testing.T, identifiers ...string) *codec.Registry {
	t.Helper()
	reg := codec.New()
	for _, id := range identifiers {
		id := id
		reg.Register(id, func() bus.Codec { return stubCodec{name: id} })
	}
	return reg
}

func TestRegisterCodecsEmptyListSucceeds(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	target := &recordingRegistry{}

	require.NoError(t, reg.RegisterCodecs(context.Background(), target, nil, true))
	require.Empty(t, target.registered)
}

func TestRegisterCodecsRegistersInOrder(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, "json", "msgpack")
	target := &recordingRegistry{}

	err := reg.RegisterCodecs(context.Background(), target, []string{"msgpack", "json"}, true)

	require.NoError(t, err)
	require.Len(t, target.registered, 2)
	require.Equal(t, "msgpack", target.registered[0].Name())
	require.Equal(t, "json", target.registered[1].Name())
}

func TestRegisterCodecsUnresolvableAborts(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, "json", "msgpack")
	target := &recordingRegistry{}

	// Arrange: the failing identifier sits between two resolvable ones.
	err := reg.RegisterCodecs(context.Background(), target, []string{"json", "unresolvable.Type", "msgpack"}, true)

	// Assert: the whole call fails, the codec before the failure stays
	// registered (no rollback), and the one after is never processed.
	var regErr *codec.RegistrationError
	require.ErrorAs(t, err, &regErr)
	require.Equal(t, "unresolvable.Type", regErr.Identifier)
	require.Len(t, target.registered, 1)
	require.Equal(t, "json", target.registered[0].Name())
}

func TestRegisterCodecsUnresolvableSkippedWithoutAbort(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, "json", "msgpack")
	target := &recordingRegistry{}

	err := reg.RegisterCodecs(context.Background(), target, []string{"json", "unresolvable.Type", "msgpack"}, false)

	require.NoError(t, err)
	require.Len(t, target.registered, 2)
	require.Equal(t, "json", target.registered[0].Name())
	require.Equal(t, "msgpack", target.registered[1].Name())
}

func TestRegisterCodecsBusRejectionFollowsPolicy(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, "json")
	cause := errors.New("codec \"json\" already registered")

	// Abort-on-failure surfaces the bus error with the identifier attached.
	target := &recordingRegistry{failWith: cause}
	err := reg.RegisterCodecs(context.Background(), target, []string{"json"}, true)
	var regErr *codec.RegistrationError
	require.ErrorAs(t, err, &regErr)
	require.ErrorIs(t, err, cause)

	// Without abort the rejection is suppressed.
	target = &recordingRegistry{failWith: cause}
	require.NoError(t, reg.RegisterCodecs(context.Background(), target, []string{"json"}, false))
	require.Empty(t, target.registered)
}

func TestRegistryDuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, "json")
	require.Panics(t, func() {
		reg.Register("json", func() bus.Codec { return stubCodec{name: "json"} })
	})
}

func TestRegistryResolveUnknown(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	_, err := reg.Resolve("nope")
	require.Error(t, err)
}
