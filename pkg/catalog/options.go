package catalog

import (
	"github.com/shuldan/nativebridge/pkg/contracts"
)

type Option func(*Catalog)

// WithEager appends names to the eager-init list. Duplicates keep their first position.
func WithEager(names ...string) Option {
	return func(c *Catalog) {
		for _, name := range names {
			if name == "" || contains(c.eager, name) {
				continue
			}
			c.eager = append(c.eager, name)
		}
	}
}

// WithDisabled hides names from both tiers and from the eager list.
func WithDisabled(names ...string) Option {
	return func(c *Catalog) {
		for _, name := range names {
			if name != "" {
				c.disabled[name] = struct{}{}
			}
		}
	}
}

// FromConfig reads modules.eager and modules.disabled.
func FromConfig(cfg contracts.Config) []Option {
	if cfg == nil {
		return nil
	}
	return []Option{
		WithEager(cfg.GetStringSlice("modules.eager")...),
		WithDisabled(cfg.GetStringSlice("modules.disabled")...),
	}
}

func contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}
