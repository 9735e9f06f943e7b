package inmemorybus

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/vesselgo/internal/bus"
	"github.com/vk/vesselgo/internal/ctxlog"
)

// Bus is an in-memory implementation of bus.Bus.
//
// Codecs and subscriber lists live behind a single RWMutex: both maps are
// written only during bootstrap and subscription changes, while publishing
// is the read-heavy path.
type Bus struct {
	mu     sync.RWMutex
	codecs map[string]bus.Codec
	subs   map[string][]*subscription
}

type subscription struct {
	owner   *Bus
	address string
	handler bus.Handler
}

// New creates an empty in-memory bus with no codecs registered.
func New() *Bus {
	return &Bus{
		codecs: make(map[string]bus.Codec),
		subs:   make(map[string][]*subscription),
	}
}

// RegisterCodec adds a codec to the registry, keyed by its declared name.
// Registering a second codec under the same name is an error.
func (b *Bus) RegisterCodec(c bus.Codec) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	name := c.Name()
	if _, exists := b.codecs[name]; exists {
		return fmt.Errorf("codec %q already registered", name)
	}
	b.codecs[name] = c
	return nil
}

// Codec looks up a registered codec by name.
func (b *Bus) Codec(name string) (bus.Codec, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.codecs[name]
	return c, ok
}

// Publish encodes body with the named codec and delivers the decoded result
// to every current subscriber of address, synchronously and in subscription
// order. Every delivery round-trips through the codec so subscribers observe
// exactly what the wire format preserves.
func (b *Bus) Publish(ctx context.Context, address, codecName string, body any) error {
	b.mu.RLock()
	c, ok := b.codecs[codecName]
	receivers := append([]*subscription(nil), b.subs[address]...)
	b.mu.RUnlock()

	if !ok {
		return fmt.Errorf("publish to %q: no codec registered under %q", address, codecName)
	}

	wire, err := c.Encode(body)
	if err != nil {
		return fmt.Errorf("publish to %q: encoding with codec %q: %w", address, codecName, err)
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Publishing message.", "address", address, "codec", codecName, "subscribers", len(receivers))

	for _, sub := range receivers {
		decoded, err := c.Decode(wire)
		if err != nil {
			return fmt.Errorf("publish to %q: decoding with codec %q: %w", address, codecName, err)
		}
		sub.handler(ctx, bus.Message{Address: address, Codec: codecName, Body: decoded})
	}
	return nil
}

// Subscribe registers a handler for an address.
func (b *Bus) Subscribe(address string, h bus.Handler) (bus.Subscription, error) {
	if h == nil {
		return nil, fmt.Errorf("subscribe to %q: nil handler", address)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscription{owner: b, address: address, handler: h}
	b.subs[address] = append(b.subs[address], sub)
	return sub, nil
}

// Unsubscribe removes the subscription from its address. Safe to call more
// than once.
func (s *subscription) Unsubscribe() {
	b := s.owner
	b.mu.Lock()
	defer b.mu.Unlock()

	current := b.subs[s.address]
	for i, sub := range current {
		if sub == s {
			b.subs[s.address] = append(current[:i:i], current[i+1:]...)
			break
		}
	}
}
