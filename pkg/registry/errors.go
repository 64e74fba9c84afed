package registry

import "github.com/shuldan/nativebridge/pkg/errors"

var newRegistryCode = errors.WithPrefix("REGISTRY")

var (
	ErrNilDelegate      = newRegistryCode().New("module delegate is required")
	ErrModuleCreate     = newRegistryCode().New("failed to create {{.kind}} module {{.module}}")
	ErrModuleNotBuilt   = newRegistryCode().New("{{.kind}} provider claimed module {{.module}} but produced nothing")
	ErrModuleInitialize = newRegistryCode().New("failed to initialize module {{.module}}")
	ErrModuleInvalidate = newRegistryCode().New("failed to invalidate module {{.module}}")
	ErrRegistryResolve  = newRegistryCode().New("failed to resolve {{.service}} from container")
)
