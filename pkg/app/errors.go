package app

import "github.com/shuldan/nativebridge/pkg/errors"

var newAppCode = errors.WithPrefix("APP")
var newRegistryCode = errors.WithPrefix("APP_REGISTRY")
var newContainerCode = errors.WithPrefix("APP_CONTAINER")

var (
	ErrModuleRegister = newAppCode().New("failed to register module {{.module}}")
	ErrModuleStart    = newAppCode().New("failed to start module {{.module}}")
	ErrAppRun         = newAppCode().New("application run failed with reason: {{.reason}}")
	ErrAppStop        = newAppCode().New("application stop failed with reason: {{.reason}}")

	ErrModuleStop      = newRegistryCode().New("failed to stop module {{.module}}")
	ErrDuplicateModule = newRegistryCode().New("module {{.module}} is already registered")
	ErrNilModule       = newRegistryCode().New("module must not be nil")

	ErrCircularDep       = newContainerCode().New("circular dependency detected for {{.name}}")
	ErrValueNotFound     = newContainerCode().New("value not found for {{.name}}")
	ErrDuplicateInstance = newContainerCode().New("instance already exists for {{.name}}")
	ErrDuplicateFactory  = newContainerCode().New("factory already registered for {{.name}}")
	ErrNilFactory        = newContainerCode().New("factory for {{.name}} is nil")
	ErrEmptyName         = newContainerCode().New("binding name must not be empty")
	ErrFactoryFailed     = newContainerCode().New("factory for {{.name}} failed")
)
