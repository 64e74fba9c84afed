// Package registry creates named native modules lazily, exactly once per session,
// and tears them down after draining in-flight creations.
package registry

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/shuldan/nativebridge/pkg/contracts"
	"github.com/shuldan/nativebridge/pkg/errors"
)

var _ contracts.ModuleRegistry = (*Registry)(nil)

type Registry struct {
	delegate contracts.ModuleDelegate
	chain    providerChain
	cfg      config
	log      contracts.Logger

	// mu guards holders, nextID and shuttingDown. It is never held while module code runs.
	mu           sync.Mutex
	holders      map[string]*holder
	nextID       int64
	shuttingDown bool

	// drained is closed once the first Invalidate has finished.
	drained chan struct{}
}

func New(delegate contracts.ModuleDelegate, opts ...Option) (*Registry, error) {
	if delegate == nil {
		return nil, ErrNilDelegate
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Registry{
		delegate: delegate,
		chain:    newProviderChain(delegate),
		cfg:      cfg,
		log:      cfg.logger.With("session", cfg.session),
		holders:  make(map[string]*holder),
		drained:  make(chan struct{}),
	}, nil
}

func (r *Registry) Session() string {
	return r.cfg.session
}

// Get returns the module registered under name, creating it on first use.
//
// Unknown names, empty names and any lookup after Invalidate has begun yield (nil, nil).
// A creation failure is returned as an error only to the caller that ran the creation;
// callers that waited on it, and every later caller, observe (nil, nil).
func (r *Registry) Get(name string) (contracts.ServiceHandle, error) {
	if name == "" {
		return nil, nil
	}

	h := r.holderFor(name)
	if h == nil {
		return nil, nil
	}
	return r.getOrCreate(h)
}

// Has reports whether name has completed creation with a usable handle.
func (r *Registry) Has(name string) bool {
	r.mu.Lock()
	h, ok := r.holders[name]
	r.mu.Unlock()
	if !ok {
		return false
	}
	_, created := h.created()
	return created
}

// ListCreated returns a snapshot of realized handles ordered by holder creation.
func (r *Registry) ListCreated() []contracts.ServiceHandle {
	holders := r.snapshot()
	handles := make([]contracts.ServiceHandle, 0, len(holders))
	for _, h := range holders {
		if handle, ok := h.created(); ok {
			handles = append(handles, handle)
		}
	}
	return handles
}

func (r *Registry) EagerInitNames() []string {
	return slices.Clone(r.delegate.EagerInitNames())
}

// Invalidate stops new creations, waits for in-flight ones, invalidates every realized
// handle once and forgets all holders. Concurrent calls wait for the first to finish.
func (r *Registry) Invalidate() error {
	r.mu.Lock()
	if r.shuttingDown {
		r.mu.Unlock()
		<-r.drained
		return nil
	}
	r.shuttingDown = true
	r.mu.Unlock()
	defer close(r.drained)

	holders := r.snapshot()

	// Draining runs the same creation path as Get so half-built handles are finished first.
	for _, h := range holders {
		_, _ = r.getOrCreate(h)
	}

	var errs []error
	invalidated := 0
	for _, h := range holders {
		handle, ok := h.created()
		if !ok {
			continue
		}
		err := runSafely("module "+h.name+" invalidate", handle.Invalidate)
		if err != nil {
			err = ErrModuleInvalidate.WithDetail("module", h.name).WithCause(err)
			r.log.Warn("module invalidate failed", "module", h.name, "holder", h.id, "error", err)
			errs = append(errs, err)
		}
		invalidated++
		r.publish(ModuleInvalidated{Session: r.cfg.session, Name: h.name, HolderID: h.id, Err: err})
	}

	r.mu.Lock()
	clear(r.holders)
	r.mu.Unlock()

	r.log.Info("module registry invalidated", "modules", invalidated, "failed", len(errs))

	return errors.Join(errs...)
}

// holderFor finds or inserts the holder for name; nil once shutdown has begun.
func (r *Registry) holderFor(name string) *holder {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.shuttingDown {
		return nil
	}
	h, ok := r.holders[name]
	if !ok {
		r.nextID++
		h = newHolder(r.nextID, name)
		r.holders[name] = h
	}
	return h
}

func (r *Registry) snapshot() []*holder {
	r.mu.Lock()
	holders := make([]*holder, 0, len(r.holders))
	for _, h := range r.holders {
		holders = append(holders, h)
	}
	r.mu.Unlock()

	slices.SortFunc(holders, func(a, b *holder) int {
		return cmp.Compare(a.id, b.id)
	})
	return holders
}

func (r *Registry) getOrCreate(h *holder) (contracts.ServiceHandle, error) {
	handle, creator := h.claim()
	if !creator {
		return handle, nil
	}

	var err error
	// settle runs deferred so waiters are released even if logging or publishing panics.
	defer func() { h.settle(handle) }()

	handle, err = r.create(h)
	return handle, err
}

func (r *Registry) create(h *holder) (contracts.ServiceHandle, error) {
	started := time.Now()
	r.publish(ModuleCreateStarted{Session: r.cfg.session, Name: h.name, HolderID: h.id})
	r.log.Debug("module create started", "module", h.name, "holder", h.id)

	kind, p := r.chain.resolve(h.name)
	handle, err := r.build(h.name, kind, p)

	ended := ModuleCreateEnded{
		Session:  r.cfg.session,
		Name:     h.name,
		HolderID: h.id,
		Kind:     kind,
		Created:  handle != nil,
		Err:      err,
		Duration: time.Since(started),
	}
	switch {
	case err != nil:
		r.log.Error("module create failed", "module", h.name, "holder", h.id, "kind", kind, "code", errors.CodeOf(err), "error", err)
	case handle == nil:
		r.log.Debug("module not recognized", "module", h.name, "holder", h.id)
	default:
		r.log.Debug("module created", "module", h.name, "holder", h.id, "kind", kind, "duration", ended.Duration)
	}
	r.publish(ended)

	return handle, err
}

func (r *Registry) build(name string, kind Kind, p provider) (contracts.ServiceHandle, error) {
	if p == nil {
		return nil, nil
	}

	var handle contracts.ServiceHandle
	err := runSafely("module "+name+" create", func() error {
		var createErr error
		handle, createErr = p.provide(name)
		return createErr
	})
	if err != nil {
		return nil, ErrModuleCreate.
			WithDetail("module", name).
			WithDetail("kind", kind.String()).
			WithCause(err)
	}
	if handle == nil {
		return nil, ErrModuleNotBuilt.
			WithDetail("module", name).
			WithDetail("kind", kind.String())
	}

	if err = runSafely("module "+name+" initialize", handle.Initialize); err != nil {
		return nil, ErrModuleInitialize.WithDetail("module", name).WithCause(err)
	}
	return handle, nil
}

func (r *Registry) publish(event any) {
	if r.cfg.bus == nil {
		return
	}
	err := runSafely("publish", func() error {
		return r.cfg.bus.Publish(context.Background(), event)
	})
	if err != nil {
		r.log.Warn("module diagnostic event dropped", "event", event, "error", err)
	}
}
