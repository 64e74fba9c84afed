package registry

import (
	"github.com/shuldan/nativebridge/pkg/contracts"
)

// DelegateFactory builds the module delegate from services already in the container.
type DelegateFactory func(c contracts.DIContainer) (contracts.ModuleDelegate, error)

type module struct {
	delegate DelegateFactory
	opts     []Option
}

// NewModule exposes a Registry to the host lifecycle: the registry is registered in the
// container, the eager list is realized on Start and every module is invalidated on Stop.
func NewModule(delegate DelegateFactory, opts ...Option) contracts.AppModule {
	return &module{delegate: delegate, opts: opts}
}

func (m *module) Name() string {
	return contracts.RegistryModuleName
}

func (m *module) Register(container contracts.DIContainer) error {
	return container.Factory(contracts.RegistryModuleName, func(c contracts.DIContainer) (any, error) {
		if m.delegate == nil {
			return nil, ErrNilDelegate
		}
		delegate, err := m.delegate(c)
		if err != nil {
			return nil, err
		}

		opts := make([]Option, 0, len(m.opts)+2)
		if l, ok := resolveOptional[contracts.Logger](c, contracts.LoggerModuleName); ok {
			opts = append(opts, WithLogger(l))
		}
		if bus, ok := resolveOptional[contracts.Bus](c, contracts.EventBusModuleName); ok {
			opts = append(opts, WithEventBus(bus))
		}
		opts = append(opts, m.opts...)

		return New(delegate, opts...)
	})
}

func (m *module) Start(ctx contracts.AppContext) error {
	reg, err := Resolve(ctx.Container())
	if err != nil {
		return err
	}

	for _, name := range reg.EagerInitNames() {
		// A failed eager module stays absent for the session; it does not stop the host.
		_, _ = reg.Get(name)
	}
	return nil
}

func (m *module) Stop(ctx contracts.AppContext) error {
	reg, err := Resolve(ctx.Container())
	if err != nil {
		return err
	}
	return reg.Invalidate()
}

// Resolve returns the registry registered by NewModule.
func Resolve(c contracts.DIContainer) (contracts.ModuleRegistry, error) {
	raw, err := c.Resolve(contracts.RegistryModuleName)
	if err != nil {
		return nil, ErrRegistryResolve.
			WithDetail("service", contracts.RegistryModuleName).
			WithCause(err)
	}
	reg, ok := raw.(contracts.ModuleRegistry)
	if !ok {
		return nil, ErrRegistryResolve.WithDetail("service", contracts.RegistryModuleName)
	}
	return reg, nil
}

func resolveOptional[T any](c contracts.DIContainer, name string) (T, bool) {
	var zero T
	if !c.Has(name) {
		return zero, false
	}
	raw, err := c.Resolve(name)
	if err != nil {
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}
