package config

import (
	"os"
	"strconv"
	"strings"
)

// envConfigLoader reads PREFIX_SECTION__KEY=value pairs. The remainder after the prefix
// is lower-cased and "__" separates nesting levels. Booleans and numbers are typed.
type envConfigLoader struct {
	prefix string
}

func (l *envConfigLoader) Load() (map[string]any, error) {
	out := make(map[string]any)
	for _, entry := range os.Environ() {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path := strings.ToLower(strings.TrimPrefix(name, l.prefix))
		path = strings.TrimPrefix(path, "_")
		if path == "" {
			continue
		}
		setPath(out, strings.Split(path, "__"), parseScalar(value))
	}
	return out, nil
}

func parseScalar(s string) any {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// setPath stores value at path, replacing any scalar that sits where a map is needed.
func setPath(m map[string]any, path []string, value any) {
	for _, segment := range path[:len(path)-1] {
		next, ok := m[segment].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[segment] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}
