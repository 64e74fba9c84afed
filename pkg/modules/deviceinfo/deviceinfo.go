// Package deviceinfo reports host identity: a per-installation id and the host name.
package deviceinfo

import (
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/shuldan/nativebridge/pkg/catalog"
	"github.com/shuldan/nativebridge/pkg/contracts"
	"github.com/shuldan/nativebridge/pkg/errors"
)

const Name = "DeviceInfo"

var newDeviceInfoCode = errors.WithPrefix("DEVICEINFO")

var (
	ErrHostname       = newDeviceInfoCode().New("failed to read host name")
	ErrNotInitialized = newDeviceInfoCode().New("device info is not initialized")
)

type Option func(*Module)

// WithInstallationID pins the id instead of generating one at Initialize.
func WithInstallationID(id string) Option {
	return func(m *Module) {
		m.fixedID = id
	}
}

func WithHostnameFunc(fn func() (string, error)) Option {
	return func(m *Module) {
		if fn != nil {
			m.hostname = fn
		}
	}
}

type Module struct {
	fixedID  string
	hostname func() (string, error)

	mu             sync.RWMutex
	installationID string
	host           string
}

var _ contracts.ServiceHandle = (*Module)(nil)

func New(opts ...Option) *Module {
	m := &Module{hostname: os.Hostname}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Module) Initialize() error {
	host, err := m.hostname()
	if err != nil {
		return ErrHostname.WithCause(err)
	}

	id := m.fixedID
	if id == "" {
		id = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.installationID = id
	m.host = host
	return nil
}

func (m *Module) Invalidate() error {
	return nil
}

func (m *Module) InstallationID() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.installationID == "" {
		return "", ErrNotInitialized
	}
	return m.installationID, nil
}

func (m *Module) Hostname() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.installationID == "" {
		return "", ErrNotInitialized
	}
	return m.host, nil
}

func Register(cat *catalog.Catalog, opts ...Option) error {
	return cat.Primary(Name, func() (contracts.ServiceHandle, error) {
		return New(opts...), nil
	})
}
