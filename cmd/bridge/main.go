package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/shuldan/nativebridge/pkg/app"
	"github.com/shuldan/nativebridge/pkg/catalog"
	"github.com/shuldan/nativebridge/pkg/config"
	"github.com/shuldan/nativebridge/pkg/contracts"
	"github.com/shuldan/nativebridge/pkg/events"
	"github.com/shuldan/nativebridge/pkg/logger"
	"github.com/shuldan/nativebridge/pkg/modules/clock"
	"github.com/shuldan/nativebridge/pkg/modules/deviceinfo"
	"github.com/shuldan/nativebridge/pkg/modules/storage"
	"github.com/shuldan/nativebridge/pkg/registry"
)

const launchesKey = "launches"

func main() {
	paths := os.Args[1:]
	if len(paths) == 0 {
		paths = []string{"config.yaml", "config.hcl"}
	}

	values, err := config.NewLayeredLoader("BRIDGE", paths...).Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg := config.NewMapConfig(values)

	application := app.New(
		app.AppInfo{
			AppName:     cfg.GetString("app.name", "bridge"),
			Version:     cfg.GetString("app.version", "0.1.0"),
			Environment: cfg.GetString("app.environment", "dev"),
		},
		app.NewContainer(),
		app.NewRegistry(),
		app.WithGracefulTimeout(cfg.GetDuration("app.shutdown_timeout", 5*time.Second)),
	)

	modules := []contracts.AppModule{
		config.NewModuleWithLoader(config.Fixed(values)),
		logger.NewModule(),
		events.NewModule(),
		&diagnostics{},
		registry.NewModule(catalog.Delegate(setupCatalog)),
		&session{},
	}
	for _, m := range modules {
		if err := application.Register(m); err != nil {
			log.Fatalf("register %s: %v", m.Name(), err)
		}
	}

	if err := application.Run(); err != nil {
		log.Fatal(err)
	}
}

func setupCatalog(cat *catalog.Catalog, c contracts.DIContainer) error {
	var cfg contracts.Config
	if raw, err := c.Resolve(contracts.ConfigModuleName); err == nil {
		cfg, _ = raw.(contracts.Config)
	}

	if err := clock.Register(cat); err != nil {
		return err
	}
	if err := deviceinfo.Register(cat); err != nil {
		return err
	}
	return storage.Register(cat, cfg)
}

// diagnostics logs registry lifecycle events published on the bus.
type diagnostics struct{}

func (d *diagnostics) Name() string { return "bridge.diagnostics" }

func (d *diagnostics) Register(contracts.DIContainer) error { return nil }

func (d *diagnostics) Start(ctx contracts.AppContext) error {
	bus, l, err := resolveBusAndLogger(ctx.Container())
	if err != nil {
		return err
	}

	if err = bus.Subscribe((*registry.ModuleCreateEnded)(nil), func(_ context.Context, e registry.ModuleCreateEnded) error {
		l.Info("module create ended",
			"module", e.Name, "kind", e.Kind, "created", e.Created, "duration", e.Duration, "error", e.Err)
		return nil
	}); err != nil {
		return err
	}
	return bus.Subscribe((*registry.ModuleInvalidated)(nil), func(_ context.Context, e registry.ModuleInvalidated) error {
		l.Info("module invalidated", "module", e.Name, "error", e.Err)
		return nil
	})
}

func (d *diagnostics) Stop(contracts.AppContext) error { return nil }

// session exercises the realized modules once the registry has started.
type session struct{}

func (s *session) Name() string { return "bridge.session" }

func (s *session) Register(contracts.DIContainer) error { return nil }

func (s *session) Start(ctx contracts.AppContext) error {
	reg, err := registry.Resolve(ctx.Container())
	if err != nil {
		return err
	}
	_, l, err := resolveBusAndLogger(ctx.Container())
	if err != nil {
		return err
	}

	if h, err := reg.Get(deviceinfo.Name); err == nil && h != nil {
		info := h.(*deviceinfo.Module)
		id, _ := info.InstallationID()
		host, _ := info.Hostname()
		l.Info("device", "installation_id", id, "hostname", host)
	}

	h, err := reg.Get(storage.Name)
	if err != nil {
		l.Warn("storage unavailable", "error", err)
	} else if h != nil {
		launches, err := countLaunch(ctx.Ctx(), h.(*storage.Module))
		if err != nil {
			l.Warn("storage write failed", "error", err)
		} else {
			l.Info("launch recorded", "launches", launches)
		}
	}

	if h, _ := reg.Get(clock.Name); h != nil {
		l.Info("clock", "legacy", h.(*clock.Module).Legacy(), "now", h.(*clock.Module).Now())
	}

	l.Info("modules realized", "count", len(reg.ListCreated()))
	return nil
}

func (s *session) Stop(contracts.AppContext) error { return nil }

// countLaunch increments the stored launch counter. A missing or unreadable value restarts at one.
func countLaunch(ctx context.Context, store *storage.Module) (int, error) {
	v, ok, err := store.Get(ctx, launchesKey)
	if err != nil {
		return 0, err
	}
	n := 0
	if ok {
		if parsed, perr := strconv.Atoi(v); perr == nil && parsed > 0 {
			n = parsed
		}
	}
	n++
	return n, store.Set(ctx, launchesKey, strconv.Itoa(n))
}

func resolveBusAndLogger(c contracts.DIContainer) (contracts.Bus, contracts.Logger, error) {
	rawBus, err := c.Resolve(contracts.EventBusModuleName)
	if err != nil {
		return nil, nil, err
	}
	rawLog, err := c.Resolve(contracts.LoggerModuleName)
	if err != nil {
		return nil, nil, err
	}
	bus, ok := rawBus.(contracts.Bus)
	if !ok {
		return nil, nil, events.ErrInvalidBusInstance
	}
	l, ok := rawLog.(contracts.Logger)
	if !ok {
		return nil, nil, events.ErrInvalidLoggerInstance
	}
	return bus, l, nil
}
