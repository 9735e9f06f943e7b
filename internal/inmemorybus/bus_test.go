package inmemorybus_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/vesselgo/codecs/jsonmsg"
	"github.com/vk/vesselgo/internal/bus"
	"github.com/vk/vesselgo/internal/inmemorybus"
)

func TestRegisterCodecDuplicateName(t *testing.T) {
	t.Parallel()

	b := inmemorybus.New()
	require.NoError(t, b.RegisterCodec(jsonmsg.Codec{}))
	require.Error(t, b.RegisterCodec(jsonmsg.Codec{}))
}

func TestPublishRoundTripsThroughCodec(t *testing.T) {
	t.Parallel()

	// Arrange
	b := inmemorybus.New()
	require.NoError(t, b.RegisterCodec(jsonmsg.Codec{}))

	var received []bus.Message
	sub, err := b.Subscribe("orders", func(ctx context.Context, msg bus.Message) {
		received = append(received, msg)
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	// Act
	err = b.Publish(context.Background(), "orders", "json", map[string]any{"id": 7})

	// Assert: the payload went through the JSON wire format, so the number
	// comes back as float64.
	require.NoError(t, err)
	require.Len(t, received, 1)
	require.Equal(t, "orders", received[0].Address)
	require.Equal(t, "json", received[0].Codec)
	require.Equal(t, map[string]any{"id": float64(7)}, received[0].Body)
}

func TestPublishUnknownCodecFails(t *testing.T) {
	t.Parallel()

	b := inmemorybus.New()
	err := b.Publish(context.Background(), "orders", "json", "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no codec registered")
}

func TestPublishSkipsOtherAddresses(t *testing.T) {
	t.Parallel()

	b := inmemorybus.New()
	require.NoError(t, b.RegisterCodec(jsonmsg.Codec{}))

	var hits int
	_, err := b.Subscribe("other", func(ctx context.Context, msg bus.Message) { hits++ })
	require.NoError(t, err)

	require.NoError(t, b.Publish(context.Background(), "orders", "json", "hello"))
	require.Zero(t, hits)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()

	b := inmemorybus.New()
	require.NoError(t, b.RegisterCodec(jsonmsg.Codec{}))

	var hits int
	sub, err := b.Subscribe("orders", func(ctx context.Context, msg bus.Message) { hits++ })
	require.NoError(t, err)

	require.NoError(t, b.Publish(context.Background(), "orders", "json", "one"))
	sub.Unsubscribe()
	sub.Unsubscribe() // idempotent
	require.NoError(t, b.Publish(context.Background(), "orders", "json", "two"))

	require.Equal(t, 1, hits)
}
