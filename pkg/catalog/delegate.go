package catalog

import (
	"github.com/shuldan/nativebridge/pkg/contracts"
)

// Setup registers factories on a fresh catalog. It may resolve services from c.
type Setup func(cat *Catalog, c contracts.DIContainer) error

// Delegate returns a registry delegate factory: it builds a catalog from the container's
// config (when present), runs setup and seals the result.
func Delegate(setup Setup, opts ...Option) func(c contracts.DIContainer) (contracts.ModuleDelegate, error) {
	return func(c contracts.DIContainer) (contracts.ModuleDelegate, error) {
		var all []Option
		if c.Has(contracts.ConfigModuleName) {
			inst, err := c.Resolve(contracts.ConfigModuleName)
			if err != nil {
				return nil, err
			}
			cfg, ok := inst.(contracts.Config)
			if !ok {
				return nil, ErrInvalidConfig
			}
			all = append(all, FromConfig(cfg)...)
		}
		cat := New(append(all, opts...)...)
		if setup != nil {
			if err := setup(cat, c); err != nil {
				return nil, err
			}
		}
		cat.Seal()
		return cat, nil
	}
}
