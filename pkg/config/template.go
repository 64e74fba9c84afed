package config

import (
	"os"
	"strings"
	"text/template"
)

// templatedLoader renders string values containing "{{" against the process environment.
// Environment variables are available as {{ .NAME }} and through the env function.
type templatedLoader struct {
	loader Loader
}

func newTemplatedLoader(loader Loader) Loader {
	return &templatedLoader{loader: loader}
}

func (t *templatedLoader) Load() (map[string]any, error) {
	raw, err := t.loader.Load()
	if err != nil {
		return nil, err
	}

	r := &renderer{env: environ(), funcs: templateFuncs()}
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		rendered, err := r.value(k, v)
		if err != nil {
			return nil, err
		}
		out[k] = rendered
	}
	return out, nil
}

type renderer struct {
	env   map[string]string
	funcs template.FuncMap
}

func (r *renderer) value(path string, v any) (any, error) {
	switch val := v.(type) {
	case string:
		if !strings.Contains(val, "{{") {
			return val, nil
		}
		return r.render(path, val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			rendered, err := r.value(path+"."+k, item)
			if err != nil {
				return nil, err
			}
			out[k] = rendered
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			rendered, err := r.value(path, item)
			if err != nil {
				return nil, err
			}
			out[i] = rendered
		}
		return out, nil
	default:
		return val, nil
	}
}

func (r *renderer) render(path, text string) (string, error) {
	tmpl, err := template.New(path).Funcs(r.funcs).Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", ErrRenderTemplate.WithDetail("key", path).WithCause(err)
	}
	var sb strings.Builder
	if err = tmpl.Execute(&sb, r.env); err != nil {
		return "", ErrRenderTemplate.WithDetail("key", path).WithCause(err)
	}
	return sb.String(), nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"env":   os.Getenv,
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		// default returns def when val is empty, so {{ env "X" | default "y" }} works.
		"default": func(def string, val any) string {
			if s, ok := val.(string); ok && s != "" {
				return s
			}
			return def
		},
	}
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, entry := range os.Environ() {
		if k, v, ok := strings.Cut(entry, "="); ok {
			env[k] = v
		}
	}
	return env
}
