package logger

import (
	"time"

	"github.com/shuldan/nativebridge/pkg/contracts"
)

type module struct {
	opts []Option
}

// NewModule registers the application logger. When a config module is present its
// "logger" section is applied first and opts override it.
func NewModule(opts ...Option) contracts.AppModule {
	return &module{opts: opts}
}

func (m *module) Name() string { return contracts.LoggerModuleName }

func (m *module) Register(container contracts.DIContainer) error {
	return container.Factory(contracts.LoggerModuleName, m.build)
}

func (m *module) build(c contracts.DIContainer) (any, error) {
	if !c.Has(contracts.ConfigModuleName) {
		return NewLogger(m.opts...)
	}
	inst, err := c.Resolve(contracts.ConfigModuleName)
	if err != nil {
		return nil, err
	}
	cfg, _ := inst.(contracts.Config)
	return NewFromConfig(cfg, m.opts...)
}

func (m *module) Start(ctx contracts.AppContext) error {
	if log := resolve(ctx.Container()); log != nil {
		log.Info("logger ready", "app", ctx.AppName(), "version", ctx.Version(), "environment", ctx.Environment())
	}
	return nil
}

func (m *module) Stop(ctx contracts.AppContext) error {
	if log := resolve(ctx.Container()); log != nil {
		log.Info("logger stopping", "app", ctx.AppName(), "uptime", time.Since(ctx.StartTime()).Round(time.Millisecond).String())
	}
	return nil
}

// resolve returns nil when the container has no usable logger.
func resolve(c contracts.DIContainer) contracts.Logger {
	if c == nil || !c.Has(contracts.LoggerModuleName) {
		return nil
	}
	inst, err := c.Resolve(contracts.LoggerModuleName)
	if err != nil {
		return nil
	}
	log, _ := inst.(contracts.Logger)
	return log
}
