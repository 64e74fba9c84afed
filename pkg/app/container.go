package app

import (
	"sync"

	"github.com/shuldan/nativebridge/pkg/contracts"
)

// binding holds one named factory. Its mutex serializes the factory call so concurrent
// resolvers of the same name observe a single construction.
type binding struct {
	mu       sync.Mutex
	factory  func(c contracts.DIContainer) (any, error)
	resolved bool
	value    any
}

type container struct {
	mu        sync.RWMutex
	factories map[string]*binding
	instances map[string]any
}

var _ contracts.DIContainer = (*container)(nil)

func NewContainer() contracts.DIContainer {
	return &container{
		factories: make(map[string]*binding),
		instances: make(map[string]any),
	}
}

func (c *container) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, hasFactory := c.factories[name]
	_, hasInstance := c.instances[name]
	return hasFactory || hasInstance
}

func (c *container) Instance(name string, value any) error {
	if name == "" {
		return ErrEmptyName
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.instances[name]; exists {
		return ErrDuplicateInstance.WithDetail("name", name)
	}
	if _, exists := c.factories[name]; exists {
		return ErrDuplicateInstance.WithDetail("name", name)
	}
	c.instances[name] = value
	return nil
}

func (c *container) Factory(name string, factory func(c contracts.DIContainer) (any, error)) error {
	if name == "" {
		return ErrEmptyName
	}
	if factory == nil {
		return ErrNilFactory.WithDetail("name", name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.factories[name]; exists {
		return ErrDuplicateFactory.WithDetail("name", name)
	}
	if _, exists := c.instances[name]; exists {
		return ErrDuplicateFactory.WithDetail("name", name)
	}
	c.factories[name] = &binding{factory: factory}
	return nil
}

func (c *container) Resolve(name string) (any, error) {
	return c.resolveWithStack(name, make(map[string]bool))
}

func (c *container) resolveWithStack(name string, resolving map[string]bool) (any, error) {
	c.mu.RLock()
	instance, isInstance := c.instances[name]
	b, isFactory := c.factories[name]
	c.mu.RUnlock()

	if isInstance {
		return instance, nil
	}
	if !isFactory {
		return nil, ErrValueNotFound.WithDetail("name", name)
	}
	if resolving[name] {
		return nil, ErrCircularDep.WithDetail("name", name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.resolved {
		return b.value, nil
	}

	resolving[name] = true
	defer delete(resolving, name)

	value, err := b.factory(&containerProxy{container: c, resolving: resolving})
	if err != nil {
		return nil, ErrFactoryFailed.WithDetail("name", name).WithCause(err)
	}
	b.value = value
	b.resolved = true
	return value, nil
}

// containerProxy is handed to factories so nested Resolve calls share the cycle stack.
type containerProxy struct {
	container *container
	resolving map[string]bool
}

func (cp *containerProxy) Has(name string) bool {
	return cp.container.Has(name)
}

func (cp *containerProxy) Instance(name string, value any) error {
	return cp.container.Instance(name, value)
}

func (cp *containerProxy) Factory(name string, factory func(c contracts.DIContainer) (any, error)) error {
	return cp.container.Factory(name, factory)
}

func (cp *containerProxy) Resolve(name string) (any, error) {
	return cp.container.resolveWithStack(name, cp.resolving)
}
