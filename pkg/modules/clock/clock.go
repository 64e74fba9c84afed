// Package clock is a minimal native module exposing wall time and session uptime.
package clock

import (
	"sync"
	"time"

	"github.com/shuldan/nativebridge/pkg/catalog"
	"github.com/shuldan/nativebridge/pkg/contracts"
)

const Name = "Clock"

type Option func(*Module)

// WithNow replaces the time source.
func WithNow(now func() time.Time) Option {
	return func(m *Module) {
		if now != nil {
			m.now = now
		}
	}
}

type Module struct {
	now    func() time.Time
	legacy bool

	mu          sync.RWMutex
	startedAt   time.Time
	invalidated bool
}

var _ contracts.ServiceHandle = (*Module)(nil)

func New(opts ...Option) *Module {
	m := &Module{now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewLegacy builds the same clock flagged as the legacy rendition.
func NewLegacy(opts ...Option) *Module {
	m := New(opts...)
	m.legacy = true
	return m
}

func (m *Module) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startedAt = m.now()
	return nil
}

func (m *Module) Invalidate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = true
	return nil
}

func (m *Module) Now() time.Time {
	return m.now()
}

// Uptime is zero before Initialize.
func (m *Module) Uptime() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.startedAt.IsZero() {
		return 0
	}
	return m.now().Sub(m.startedAt)
}

func (m *Module) Legacy() bool {
	return m.legacy
}

func (m *Module) Invalidated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.invalidated
}

// Register adds the clock to both tiers of cat.
func Register(cat *catalog.Catalog, opts ...Option) error {
	if err := cat.Primary(Name, func() (contracts.ServiceHandle, error) {
		return New(opts...), nil
	}); err != nil {
		return err
	}
	return cat.Fallback(Name, func() (contracts.ServiceHandle, error) {
		return NewLegacy(opts...), nil
	})
}
