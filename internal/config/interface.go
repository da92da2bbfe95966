package config

import "context"

// Loader is the interface for a format-specific build-file loader. It
// reads every build file under root, translates the declarations into the
// format-agnostic model, and reports any syntax or translation error.
type Loader interface {
	Load(ctx context.Context, root string) (*Model, error)
}
