package app

import (
	"errors"
	"sync"

	"github.com/shuldan/nativebridge/pkg/contracts"
)

// registry keeps application modules in registration order. Names are unique.
type registry struct {
	mu     sync.RWMutex
	order  []contracts.AppModule
	byName map[string]struct{}
}

func NewRegistry() contracts.AppRegistry {
	return &registry{byName: make(map[string]struct{})}
}

func (r *registry) Register(module contracts.AppModule) error {
	if module == nil {
		return ErrNilModule
	}
	name := module.Name()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byName[name]; taken {
		return ErrDuplicateModule.WithDetail("module", name)
	}
	r.byName[name] = struct{}{}
	r.order = append(r.order, module)
	return nil
}

func (r *registry) All() []contracts.AppModule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]contracts.AppModule(nil), r.order...)
}

// Shutdown stops modules in reverse registration order and joins every failure.
func (r *registry) Shutdown(ctx contracts.AppContext) error {
	return stopReversed(ctx, r.All())
}

func stopReversed(ctx contracts.AppContext, modules []contracts.AppModule) error {
	errs := make([]error, 0, len(modules))
	for i := len(modules) - 1; i >= 0; i-- {
		m := modules[i]
		if err := m.Stop(ctx); err != nil {
			errs = append(errs, ErrModuleStop.WithDetail("module", m.Name()).WithCause(err))
		}
	}
	return errors.Join(errs...)
}
