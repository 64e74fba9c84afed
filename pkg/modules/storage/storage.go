// Package storage is a persistent key-value module backed by SQL or redis.
package storage

import (
	"context"
	"sync"
	"time"

	"github.com/shuldan/nativebridge/pkg/catalog"
	"github.com/shuldan/nativebridge/pkg/contracts"
)

const Name = "AsyncStorage"

type state int

const (
	stateNew state = iota
	stateOpen
	stateInvalidated
)

type Option func(*Module)

func WithOpenTimeout(d time.Duration) Option {
	return func(m *Module) {
		if d > 0 {
			m.openTimeout = d
		}
	}
}

type Module struct {
	backend     Backend
	openTimeout time.Duration

	// mu is held for reading by every operation, so Invalidate waits for them to finish.
	mu    sync.RWMutex
	state state
}

var _ contracts.ServiceHandle = (*Module)(nil)

func New(backend Backend, opts ...Option) *Module {
	m := &Module{backend: backend, openTimeout: 10 * time.Second}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Module) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != stateNew {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.openTimeout)
	defer cancel()
	if err := m.backend.Open(ctx); err != nil {
		return err
	}
	m.state = stateOpen
	return nil
}

func (m *Module) Invalidate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.state
	m.state = stateInvalidated
	if prev != stateOpen {
		return nil
	}
	return m.backend.Close()
}

func (m *Module) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := m.do(func() error {
		if err := checkKeys(key); err != nil {
			return err
		}
		var err error
		value, found, err = m.backend.Get(ctx, key)
		return err
	})
	return value, found, err
}

func (m *Module) Set(ctx context.Context, key, value string) error {
	return m.do(func() error {
		if err := checkKeys(key); err != nil {
			return err
		}
		return m.backend.Set(ctx, key, value)
	})
}

func (m *Module) Remove(ctx context.Context, key string) error {
	return m.do(func() error {
		if err := checkKeys(key); err != nil {
			return err
		}
		return m.backend.Remove(ctx, key)
	})
}

func (m *Module) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := m.do(func() error {
		var err error
		keys, err = m.backend.Keys(ctx)
		return err
	})
	return keys, err
}

func (m *Module) Clear(ctx context.Context) error {
	return m.do(func() error {
		return m.backend.Clear(ctx)
	})
}

// MultiGet returns the stored values of keys; missing keys are left out of the result.
func (m *Module) MultiGet(ctx context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	err := m.do(func() error {
		if err := checkKeys(keys...); err != nil {
			return err
		}
		for _, key := range keys {
			value, ok, err := m.backend.Get(ctx, key)
			if err != nil {
				return err
			}
			if ok {
				out[key] = value
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MultiSet rejects the whole batch when a key is empty. Otherwise it stops at the first
// failing write; earlier writes are kept.
func (m *Module) MultiSet(ctx context.Context, pairs map[string]string) error {
	return m.do(func() error {
		if _, empty := pairs[""]; empty {
			return ErrEmptyKey
		}
		for key, value := range pairs {
			if err := m.backend.Set(ctx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func checkKeys(keys ...string) error {
	for _, key := range keys {
		if key == "" {
			return ErrEmptyKey
		}
	}
	return nil
}

func (m *Module) do(fn func() error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch m.state {
	case stateNew:
		return ErrNotInitialized
	case stateInvalidated:
		return ErrInvalidated
	}
	return fn()
}

// Register adds AsyncStorage as a primary module. A fresh backend is built from cfg
// each time the registry creates the module, so every session gets its own connection.
func Register(cat *catalog.Catalog, cfg contracts.Config, opts ...Option) error {
	return cat.Primary(Name, func() (contracts.ServiceHandle, error) {
		backend, err := BackendFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		return New(backend, opts...), nil
	})
}
