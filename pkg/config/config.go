package config

import (
	"strings"
	"time"

	"github.com/shuldan/nativebridge/pkg/contracts"
)

// MapConfig is a read-only tree of loaded values addressed by dotted paths
// ("modules.storage.driver"). Getters convert between the scalar shapes that
// YAML, JSON, HCL and the environment produce.
type MapConfig struct {
	values map[string]any
}

var _ contracts.Config = (*MapConfig)(nil)

func (c *MapConfig) Has(key string) bool {
	_, ok := c.lookup(key)
	return ok
}

func (c *MapConfig) Get(key string) any {
	v, _ := c.lookup(key)
	return v
}

func (c *MapConfig) GetString(key string, defaultVal ...string) string {
	v, ok := c.lookup(key)
	if !ok {
		return first(defaultVal)
	}
	return asString(v)
}

func (c *MapConfig) GetInt(key string, defaultVal ...int) int {
	if i, ok := lookupAs(c, key, asInt); ok {
		return i
	}
	return first(defaultVal)
}

func (c *MapConfig) GetInt64(key string, defaultVal ...int64) int64 {
	if i, ok := lookupAs(c, key, asInt64); ok {
		return i
	}
	return first(defaultVal)
}

func (c *MapConfig) GetFloat64(key string, defaultVal ...float64) float64 {
	if f, ok := lookupAs(c, key, asFloat64); ok {
		return f
	}
	return first(defaultVal)
}

func (c *MapConfig) GetBool(key string, defaultVal ...bool) bool {
	if b, ok := lookupAs(c, key, asBool); ok {
		return b
	}
	return first(defaultVal)
}

// GetDuration accepts Go duration strings ("250ms", "1m30s"); bare numbers are seconds.
func (c *MapConfig) GetDuration(key string, defaultVal ...time.Duration) time.Duration {
	if d, ok := lookupAs(c, key, asDuration); ok {
		return d
	}
	return first(defaultVal)
}

// GetStringSlice splits string values on separator (default ",") and trims each part.
func (c *MapConfig) GetStringSlice(key string, separator ...string) []string {
	v, ok := c.lookup(key)
	if !ok || v == nil {
		return nil
	}
	sep := ","
	if len(separator) > 0 {
		sep = separator[0]
	}
	return asStrings(v, sep)
}

func (c *MapConfig) GetSub(key string) (contracts.Config, bool) {
	v, ok := c.lookup(key)
	if !ok {
		return nil, false
	}
	sub, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return NewMapConfig(sub), true
}

func (c *MapConfig) All() map[string]any {
	return cloneMap(c.values)
}

func (c *MapConfig) lookup(path string) (any, bool) {
	var node any = c.values
	for _, segment := range strings.Split(path, ".") {
		var (
			next   any
			exists bool
		)
		switch m := node.(type) {
		case map[string]any:
			next, exists = m[segment]
		case map[any]any:
			next, exists = m[segment]
		}
		if !exists {
			return nil, false
		}
		node = next
	}
	return node, true
}

func lookupAs[T any](c *MapConfig, key string, convert func(any) (T, bool)) (T, bool) {
	v, ok := c.lookup(key)
	if !ok {
		var zero T
		return zero, false
	}
	return convert(v)
}

func first[T any](values []T) T {
	var zero T
	if len(values) > 0 {
		return values[0]
	}
	return zero
}

func cloneMap(m map[string]any) map[string]any {
	cp := make(map[string]any, len(m))
	for k, v := range m {
		if sub, ok := v.(map[string]any); ok {
			v = cloneMap(sub)
		}
		cp[k] = v
	}
	return cp
}
