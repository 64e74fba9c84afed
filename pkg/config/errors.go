package config

import "github.com/shuldan/nativebridge/pkg/errors"

var newConfigCode = errors.WithPrefix("CONFIG")

var (
	ErrNoConfigSource = newConfigCode().New("no valid configuration source found. Loader: {{.loader}}")
	ErrParseYAML      = newConfigCode().New("failed to parse YAML file {{.path}}: {{.reason}}")
	ErrParseJSON      = newConfigCode().New("failed to parse JSON file {{.path}}: {{.reason}}")
	ErrParseHCL       = newConfigCode().New("failed to parse HCL file {{.path}}: {{.reason}}")
	ErrRenderTemplate = newConfigCode().New("failed to render template in {{.key}}")
)
