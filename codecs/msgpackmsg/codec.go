// Package msgpackmsg provides the builtin "msgpack" message codec, a more
// compact wire format for high-volume bus traffic.
package msgpackmsg

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vk/vesselgo/internal/bus"
	"github.com/vk/vesselgo/internal/codec"
	"github.com/vk/vesselgo/internal/verticle"
)

// Module implements the app module interface for this package.
type Module struct{}

// Codec encodes message payloads as MessagePack.
type Codec struct{}

// Name implements bus.Codec.
func (Codec) Name() string { return "msgpack" }

// Encode implements bus.Codec.
func (Codec) Encode(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Decode implements bus.Codec.
func (Codec) Decode(data []byte) (any, error) {
	var v any
	if err := msgpack.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Register registers the codec factory with the registry.
func (m *Module) Register(codecs *codec.Registry, _ *verticle.Registry) {
	codecs.Register("msgpack", func() bus.Codec { return Codec{} })
}
