package config

import "errors"

// chainLoader layers several loaders; later loaders win on conflicting keys. A loader
// that found no source is skipped; any other failure stops the chain.
type chainLoader struct {
	loaders []Loader
}

func (c *chainLoader) Load() (map[string]any, error) {
	merged := make(map[string]any)
	var lastErr error

	for _, loader := range c.loaders {
		layer, err := loader.Load()
		if errors.Is(err, ErrNoConfigSource) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, err
		}
		overlay(merged, layer)
	}

	if len(merged) == 0 {
		return nil, ErrNoConfigSource.
			WithDetail("loader", "chain").
			WithCause(lastErr)
	}
	return merged, nil
}

// overlay copies src into dst, descending into maps present on both sides. Maps taken
// from src are cloned so later layers never alias earlier ones.
func overlay(dst, src map[string]any) {
	for k, v := range src {
		srcMap, isMap := v.(map[string]any)
		if !isMap {
			dst[k] = v
			continue
		}
		if dstMap, ok := dst[k].(map[string]any); ok {
			overlay(dstMap, srcMap)
			continue
		}
		dst[k] = cloneMap(srcMap)
	}
}
