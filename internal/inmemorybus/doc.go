// Package inmemorybus provides an ephemeral, thread-safe, in-process
// implementation of the bus.Bus interface.
//
// # Purpose
//
// This is the communication bus the bootstrap sequence registers message
// codecs on and that deployed verticles publish and subscribe through. It
// keeps the codec registry and the per-address subscriber lists in memory.
//
// # Characteristics
//
//   - **Ephemeral:** created once per process, nothing is persisted
//   - **Thread-Safe:** a single RWMutex guards codecs and subscriptions
//   - **Synchronous delivery:** Publish invokes subscribers inline, in
//     subscription order, on the publisher's goroutine
//
// Delivery round-trips each message through its codec, so a payload that
// does not survive its own wire format fails loudly at publish time rather
// than silently diverging between local and remote subscribers.
//
// For cross-process messaging a different implementation (e.g. backed by a
// broker) would be needed; the rest of the system only depends on bus.Bus.
package inmemorybus
