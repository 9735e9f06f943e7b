// Package codec provides the codec factory registry and the bootstrap
// phase that registers configured codecs on the communication bus.
//
// Configuration names codecs by identifier; the mapping from identifier to
// an instantiable codec is an explicit registry populated at process build
// time by modules, so there is no reflective construct-by-name step. The
// registration loop runs synchronously, honors the configured
// abort-on-failure policy per identifier, and never rolls back codecs that
// were already registered when a later identifier fails.
package codec
