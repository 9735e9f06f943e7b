// Package verticle defines the contract for deployable sub-components and
// the build-time registry that resolves configured verticle names to
// factories.
package verticle
