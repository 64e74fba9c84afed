// Package catalog is a name-to-factory table that serves as the registry's module delegate.
//
// Every name may have a primary factory and a legacy fallback factory. The catalog only
// answers "is it registered" and "build one"; caching and concurrency belong to the registry.
package catalog

import (
	"slices"
	"sync"

	"github.com/shuldan/nativebridge/pkg/contracts"
)

// Factory builds a fresh, uninitialized module. A nil handle with a nil error means the
// factory declined to produce the module.
type Factory func() (contracts.ServiceHandle, error)

type tier string

const (
	tierPrimary  tier = "primary"
	tierFallback tier = "fallback"
)

var _ contracts.ModuleDelegate = (*Catalog)(nil)

type Catalog struct {
	mu       sync.RWMutex
	primary  map[string]Factory
	fallback map[string]Factory
	eager    []string
	disabled map[string]struct{}
	sealed   bool
}

func New(opts ...Option) *Catalog {
	c := &Catalog{
		primary:  make(map[string]Factory),
		fallback: make(map[string]Factory),
		disabled: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Primary registers the current-generation factory for name.
func (c *Catalog) Primary(name string, f Factory) error {
	return c.register(tierPrimary, name, f)
}

// Fallback registers the legacy factory for name. It is only consulted when no primary
// factory exists for the same name.
func (c *Catalog) Fallback(name string, f Factory) error {
	return c.register(tierFallback, name, f)
}

func (c *Catalog) register(t tier, name string, f Factory) error {
	if name == "" {
		return ErrEmptyName
	}
	if f == nil {
		return ErrNilFactory.WithDetail("tier", string(t)).WithDetail("module", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sealed {
		return ErrCatalogSealed.WithDetail("module", name)
	}
	table := c.table(t)
	if _, exists := table[name]; exists {
		return ErrDuplicateFactory.WithDetail("tier", string(t)).WithDetail("module", name)
	}
	table[name] = f
	return nil
}

// Seal rejects further registrations. The registry answers "is registered" once per
// name and caches it, so late registrations would otherwise be silently ignored.
func (c *Catalog) Seal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sealed = true
}

func (c *Catalog) IsPrimaryRegistered(name string) bool {
	return c.lookup(tierPrimary, name) != nil
}

func (c *Catalog) IsFallbackRegistered(name string) bool {
	return c.lookup(tierFallback, name) != nil
}

func (c *Catalog) CreatePrimary(name string) (contracts.ServiceHandle, error) {
	return c.create(tierPrimary, name)
}

func (c *Catalog) CreateFallback(name string) (contracts.ServiceHandle, error) {
	return c.create(tierFallback, name)
}

// EagerInitNames returns the configured eager names in order, minus disabled ones.
func (c *Catalog) EagerInitNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.eager))
	for _, name := range c.eager {
		if _, off := c.disabled[name]; !off {
			names = append(names, name)
		}
	}
	return names
}

// Names lists every enabled name that has at least one factory, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[string]struct{}, len(c.primary)+len(c.fallback))
	for name := range c.primary {
		seen[name] = struct{}{}
	}
	for name := range c.fallback {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		if _, off := c.disabled[name]; !off {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func (c *Catalog) create(t tier, name string) (contracts.ServiceHandle, error) {
	f := c.lookup(t, name)
	if f == nil {
		return nil, nil
	}
	return f()
}

func (c *Catalog) lookup(t tier, name string) Factory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, off := c.disabled[name]; off {
		return nil
	}
	return c.table(t)[name]
}

func (c *Catalog) table(t tier) map[string]Factory {
	if t == tierPrimary {
		return c.primary
	}
	return c.fallback
}
