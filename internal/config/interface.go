package config

import "context"

// Loader is the interface for a format-specific startup file loader. Load
// reads configuration from a file or directory path and translates it into
// the format-agnostic model.
type Loader interface {
	Load(ctx context.Context, path string) (*Model, error)
}
