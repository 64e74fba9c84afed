package catalog

import "github.com/shuldan/nativebridge/pkg/errors"

var newCatalogCode = errors.WithPrefix("CATALOG")

var (
	ErrEmptyName        = newCatalogCode().New("module name must not be empty")
	ErrNilFactory       = newCatalogCode().New("{{.tier}} factory for {{.module}} is nil")
	ErrDuplicateFactory = newCatalogCode().New("{{.tier}} factory for {{.module}} is already registered")
	ErrCatalogSealed    = newCatalogCode().New("cannot register {{.module}}: catalog is sealed")
	ErrInvalidConfig    = newCatalogCode().New("config instance must be a Config interface")
)
