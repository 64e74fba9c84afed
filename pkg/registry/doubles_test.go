package registry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/shuldan/nativebridge/pkg/contracts"
)

type fakeHandle struct {
	name        string
	initCalls   atomic.Int32
	invalidates atomic.Int32
	initErr     error
	invalidErr  error
	// initializedAtInvalidate records whether Initialize had finished when Invalidate ran.
	initializedAtInvalidate atomic.Bool
}

func (h *fakeHandle) Initialize() error {
	h.initCalls.Add(1)
	return h.initErr
}

func (h *fakeHandle) Invalidate() error {
	h.initializedAtInvalidate.Store(h.initCalls.Load() > 0)
	h.invalidates.Add(1)
	return h.invalidErr
}

type factory func() (contracts.ServiceHandle, error)

type fakeDelegate struct {
	mu       sync.Mutex
	primary  map[string]factory
	fallback map[string]factory
	eager    []string

	primaryQueries  atomic.Int32
	fallbackQueries atomic.Int32
	primaryCreates  atomic.Int32
	fallbackCreates atomic.Int32
}

func newFakeDelegate() *fakeDelegate {
	return &fakeDelegate{
		primary:  make(map[string]factory),
		fallback: make(map[string]factory),
	}
}

func (d *fakeDelegate) withPrimary(name string, f factory) *fakeDelegate {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.primary[name] = f
	return d
}

func (d *fakeDelegate) withFallback(name string, f factory) *fakeDelegate {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fallback[name] = f
	return d
}

func (d *fakeDelegate) IsPrimaryRegistered(name string) bool {
	d.primaryQueries.Add(1)
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.primary[name]
	return ok
}

func (d *fakeDelegate) IsFallbackRegistered(name string) bool {
	d.fallbackQueries.Add(1)
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.fallback[name]
	return ok
}

func (d *fakeDelegate) CreatePrimary(name string) (contracts.ServiceHandle, error) {
	d.primaryCreates.Add(1)
	d.mu.Lock()
	f := d.primary[name]
	d.mu.Unlock()
	if f == nil {
		return nil, nil
	}
	return f()
}

func (d *fakeDelegate) CreateFallback(name string) (contracts.ServiceHandle, error) {
	d.fallbackCreates.Add(1)
	d.mu.Lock()
	f := d.fallback[name]
	d.mu.Unlock()
	if f == nil {
		return nil, nil
	}
	return f()
}

func (d *fakeDelegate) EagerInitNames() []string {
	return d.eager
}

func handleFactory(h *fakeHandle) factory {
	return func() (contracts.ServiceHandle, error) { return h, nil }
}

// countingFactory returns a fresh handle on every call and counts invocations.
func countingFactory(counter *atomic.Int32) factory {
	return func() (contracts.ServiceHandle, error) {
		counter.Add(1)
		return &fakeHandle{}, nil
	}
}

// gatedFactory blocks until release is closed, then returns h.
func gatedFactory(h *fakeHandle, entered chan<- struct{}, release <-chan struct{}) factory {
	return func() (contracts.ServiceHandle, error) {
		close(entered)
		<-release
		return h, nil
	}
}

var errFactory = errors.New("factory exploded")

type recordingBus struct {
	mu     sync.Mutex
	events []any
	err    error
}

func (b *recordingBus) Subscribe(any, any) error { return nil }

func (b *recordingBus) Publish(_ context.Context, event any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return b.err
}

func (b *recordingBus) Close() error { return nil }

func (b *recordingBus) recorded() []any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]any(nil), b.events...)
}
