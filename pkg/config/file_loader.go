package config

import (
	"encoding/json"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/shuldan/nativebridge/pkg/errors"
)

type Loader interface {
	Load() (map[string]any, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func() (map[string]any, error)

func (f LoaderFunc) Load() (map[string]any, error) { return f() }

// Fixed returns a Loader that always yields a copy of values.
func Fixed(values map[string]any) Loader {
	return LoaderFunc(func() (map[string]any, error) {
		return cloneMap(values), nil
	})
}

// fileLoader decodes the first readable regular file among paths. Missing and unreadable
// candidates are skipped; a file that fails to decode stops the search.
type fileLoader struct {
	format   string
	paths    []string
	decode   func(path string, data []byte) (map[string]any, error)
	parseErr *errors.Error
}

func (l *fileLoader) Load() (map[string]any, error) {
	for _, path := range l.paths {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		values, err := l.decode(path, data)
		if err != nil {
			return nil, l.parseErr.
				WithDetail("path", path).
				WithDetail("reason", err.Error()).
				WithCause(err)
		}
		if values == nil {
			values = make(map[string]any)
		}
		return values, nil
	}
	return nil, ErrNoConfigSource.WithDetail("loader", l.format)
}

func decodeYAML(_ string, data []byte) (map[string]any, error) {
	var values map[string]any
	err := yaml.UnmarshalWithOptions(data, &values, yaml.UseJSONUnmarshaler())
	return values, err
}

func decodeJSON(_ string, data []byte) (map[string]any, error) {
	var values map[string]any
	err := json.Unmarshal(data, &values)
	return values, err
}
