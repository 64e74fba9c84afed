package events

import (
	"github.com/shuldan/nativebridge/pkg/contracts"
)

type module struct {
	opts []Option
}

func (m *module) Name() string {
	return contracts.EventBusModuleName
}

func (m *module) Register(container contracts.DIContainer) error {
	return container.Factory(
		contracts.EventBusModuleName,
		func(c contracts.DIContainer) (any, error) {
			log, err := m.resolveLogger(c)
			if err != nil {
				return nil, err
			}
			opts := []Option{
				WithPanicHandler(NewDefaultPanicHandler(log)),
				WithErrorHandler(NewDefaultErrorHandler(log)),
			}
			if cfg, ok := m.resolveConfig(c); ok {
				opts = append(opts,
					WithAsyncMode(cfg.GetBool("events.async", false)),
					WithWorkerCount(cfg.GetInt("events.workers", 1)),
					WithPublishTimeout(cfg.GetDuration("events.publish_timeout")),
				)
			}
			return New(append(opts, m.opts...)...), nil
		},
	)
}

func (m *module) resolveLogger(c contracts.DIContainer) (contracts.Logger, error) {
	if !c.Has(contracts.LoggerModuleName) {
		return nil, nil
	}
	inst, err := c.Resolve(contracts.LoggerModuleName)
	if err != nil {
		return nil, err
	}
	log, ok := inst.(contracts.Logger)
	if !ok {
		return nil, ErrInvalidLoggerInstance
	}
	return log, nil
}

func (m *module) resolveConfig(c contracts.DIContainer) (contracts.Config, bool) {
	if !c.Has(contracts.ConfigModuleName) {
		return nil, false
	}
	inst, err := c.Resolve(contracts.ConfigModuleName)
	if err != nil {
		return nil, false
	}
	cfg, ok := inst.(contracts.Config)
	return cfg, ok
}

func (m *module) Start(_ contracts.AppContext) error {
	return nil
}

func (m *module) Stop(ctx contracts.AppContext) error {
	b, err := ctx.Container().Resolve(contracts.EventBusModuleName)
	if err != nil {
		return ErrBusNotFound.WithCause(err)
	}

	busInst, ok := b.(contracts.Bus)
	if !ok {
		return ErrInvalidBusInstance
	}

	return busInst.Close()
}
