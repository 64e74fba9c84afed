package config

import (
	"path/filepath"
	"strings"

	"github.com/shuldan/nativebridge/pkg/contracts"
)

type module struct {
	loader Loader
}

// NewModule loads configPaths by extension (.yaml/.yml, .json, .hcl), then overlays
// environment variables carrying envPrefix. String values may use templates.
func NewModule(envPrefix string, configPaths ...string) contracts.AppModule {
	return &module{loader: NewLayeredLoader(envPrefix, configPaths...)}
}

// NewLayeredLoader is the loader behind NewModule. Paths with other extensions are ignored.
func NewLayeredLoader(envPrefix string, configPaths ...string) Loader {
	var yamlPaths, jsonPaths, hclPaths []string
	for _, p := range configPaths {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".yaml", ".yml":
			yamlPaths = append(yamlPaths, p)
		case ".json":
			jsonPaths = append(jsonPaths, p)
		case ".hcl":
			hclPaths = append(hclPaths, p)
		}
	}
	return newTemplatedLoader(NewChainLoader(
		NewYamlConfigLoader(yamlPaths...),
		NewJSONConfigLoader(jsonPaths...),
		NewHCLConfigLoader(hclPaths...),
		NewEnvConfigLoader(envPrefix),
	))
}

func (m *module) Name() string {
	return contracts.ConfigModuleName
}

func (m *module) Register(container contracts.DIContainer) error {
	return container.Factory(contracts.ConfigModuleName, func(c contracts.DIContainer) (any, error) {
		values, err := m.loader.Load()
		if err != nil {
			return nil, err
		}
		return NewMapConfig(values), nil
	})
}

func (m *module) Start(contracts.AppContext) error { return nil }

func (m *module) Stop(contracts.AppContext) error { return nil }
