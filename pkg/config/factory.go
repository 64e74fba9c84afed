package config

import "github.com/shuldan/nativebridge/pkg/contracts"

var _ Loader = (*envConfigLoader)(nil)
var _ Loader = (*fileLoader)(nil)
var _ Loader = (*chainLoader)(nil)
var _ Loader = (*templatedLoader)(nil)

// NewEnvConfigLoader maps PREFIX_A__B=v to a.b = v.
func NewEnvConfigLoader(prefix string) Loader {
	return &envConfigLoader{prefix: prefix}
}

func NewYamlConfigLoader(paths ...string) Loader {
	return &fileLoader{format: "yaml", paths: paths, decode: decodeYAML, parseErr: ErrParseYAML}
}

func NewJSONConfigLoader(paths ...string) Loader {
	return &fileLoader{format: "json", paths: paths, decode: decodeJSON, parseErr: ErrParseJSON}
}

func NewHCLConfigLoader(paths ...string) Loader {
	return &fileLoader{format: "hcl", paths: paths, decode: decodeHCL, parseErr: ErrParseHCL}
}

func NewChainLoader(loaders ...Loader) Loader {
	return &chainLoader{loaders: loaders}
}

// NewTemplatedLoader renders "{{ ... }}" string values of loader's output against the environment.
func NewTemplatedLoader(loader Loader) Loader {
	return newTemplatedLoader(loader)
}

func NewMapConfig(values map[string]any) contracts.Config {
	if values == nil {
		values = make(map[string]any)
	}
	return &MapConfig{values: values}
}

// NewModuleWithLoader registers the config produced by loader.
func NewModuleWithLoader(loader Loader) contracts.AppModule {
	return &module{loader: loader}
}
