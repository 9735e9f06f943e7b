package bus

import "context"

// Codec encodes and decodes a custom message payload type for transport
// across the bus. Codecs are registered once, by name, during bootstrap.
type Codec interface {
	// Name is the registry key. Duplicate-name behavior belongs to the bus,
	// not to the registrar that performs the registration.
	Name() string
	Encode(v any) ([]byte, error)
	Decode(data []byte) (any, error)
}

// CodecRegistry is the narrow surface the codec registrar needs. The full
// Bus satisfies it.
type CodecRegistry interface {
	RegisterCodec(c Codec) error
}

// Message is a decoded payload delivered to a subscriber.
type Message struct {
	Address string
	Codec   string
	Body    any
}

// Handler consumes messages delivered to a subscribed address.
type Handler func(ctx context.Context, msg Message)

// Subscription undoes a Subscribe.
type Subscription interface {
	Unsubscribe()
}

// Bus is the in-process communication bus collaborator. The orchestrator
// only ever calls RegisterCodec; publish and subscribe exist for the
// verticles deployed on top of it.
type Bus interface {
	CodecRegistry

	// Publish encodes body with the named codec and delivers it to every
	// subscriber of address.
	Publish(ctx context.Context, address, codecName string, body any) error

	// Subscribe registers a handler for an address.
	Subscribe(address string, h Handler) (Subscription, error)
}
