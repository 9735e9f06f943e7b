// Package jsonmsg provides the builtin "json" message codec.
package jsonmsg

import (
	"encoding/json"

	"github.com/vk/vesselgo/internal/bus"
	"github.com/vk/vesselgo/internal/codec"
	"github.com/vk/vesselgo/internal/verticle"
)

// Module implements the app module interface for this package.
type Module struct{}

// Codec encodes message payloads as JSON. Decoded payloads use the generic
// JSON shapes (map[string]any, []any, float64, string, bool, nil).
type Codec struct{}

// Name implements bus.Codec.
func (Codec) Name() string { return "json" }

// Encode implements bus.Codec.
func (Codec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decode implements bus.Codec.
func (Codec) Decode(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Register registers the codec factory with the registry.
func (m *Module) Register(codecs *codec.Registry, _ *verticle.Registry) {
	codecs.Register("json", func() bus.Codec { return Codec{} })
}
