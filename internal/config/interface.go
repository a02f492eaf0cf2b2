package config

import "context"

// Loader is the interface for a format-specific specification loader. It
// reads declaration documents from the given paths and translates them into
// the format-agnostic model. Id uniqueness and type resolvability are
// re-validated downstream; the loader only guarantees structural validity.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// ExecutionConfigLoader is the interface for a format-specific execution
// config loader.
type ExecutionConfigLoader interface {
	LoadExecutionConfig(ctx context.Context, path string) (*ExecutionConfig, error)
}
