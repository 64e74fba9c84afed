package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/shuldan/nativebridge/pkg/contracts"
)

const defaultGracefulTimeout = 10 * time.Second

type Option func(*app)

// WithGracefulTimeout bounds module shutdown. Zero or less waits forever.
func WithGracefulTimeout(timeout time.Duration) Option {
	return func(a *app) {
		a.shutdownTimeout = timeout
	}
}

// WithParentContext ties the application lifetime to ctx in addition to SIGINT/SIGTERM.
func WithParentContext(ctx context.Context) Option {
	return func(a *app) {
		if ctx != nil {
			a.parent = ctx
		}
	}
}

type app struct {
	container       contracts.DIContainer
	registry        contracts.AppRegistry
	info            AppInfo
	parent          context.Context
	shutdownTimeout time.Duration

	mu      sync.Mutex
	ran     bool
	current *appContext
}

// New builds an application. A nil container or registry is replaced by a fresh one.
func New(info AppInfo, container contracts.DIContainer, registry contracts.AppRegistry, opts ...Option) contracts.App {
	if container == nil {
		container = NewContainer()
	}
	if registry == nil {
		registry = NewRegistry()
	}
	a := &app{
		container:       container,
		registry:        registry,
		info:            info,
		parent:          context.Background(),
		shutdownTimeout: defaultGracefulTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *app) Register(module contracts.AppModule) error {
	return a.registry.Register(module)
}

func (a *app) getAppCtx() *appContext {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Run registers and starts every module, blocks until the context is stopped by a
// signal, the parent context or a module, then shuts the modules down. An application
// runs at most once.
func (a *app) Run() error {
	ctx, err := a.begin()
	if err != nil {
		return err
	}

	if err := a.boot(ctx); err != nil {
		return err
	}

	go stopOnSignal(ctx)
	<-ctx.Ctx().Done()
	ctx.Stop()

	return a.shutdown(ctx)
}

func (a *app) begin() (*appContext, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ran {
		return nil, ErrAppRun.WithDetail("reason", "application is already running")
	}
	a.ran = true
	a.current = newAppContext(a.parent, a.info, a.container)
	return a.current, nil
}

// boot registers all modules before starting any of them. A failed start stops the
// modules already started, newest first.
func (a *app) boot(ctx *appContext) error {
	modules := a.registry.All()
	for _, m := range modules {
		if err := m.Register(a.container); err != nil {
			ctx.Stop()
			return ErrModuleRegister.WithDetail("module", m.Name()).WithCause(err)
		}
	}
	for i, m := range modules {
		if err := m.Start(ctx); err != nil {
			ctx.Stop()
			_ = stopReversed(ctx, modules[:i])
			return ErrModuleStart.WithDetail("module", m.Name()).WithCause(err)
		}
	}
	return nil
}

func (a *app) shutdown(ctx *appContext) error {
	if a.shutdownTimeout <= 0 {
		return a.registry.Shutdown(ctx)
	}

	done := make(chan error, 1)
	go func() { done <- a.registry.Shutdown(ctx) }()

	timer := time.NewTimer(a.shutdownTimeout)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-timer.C:
		return ErrAppStop.WithDetail("reason", "graceful shutdown timed out after "+a.shutdownTimeout.String())
	}
}

func stopOnSignal(ctx contracts.AppContext) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	select {
	case <-signals:
		ctx.Stop()
	case <-ctx.Ctx().Done():
	}
}
