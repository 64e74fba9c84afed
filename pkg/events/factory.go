package events

import (
	"github.com/shuldan/nativebridge/pkg/contracts"
	"github.com/shuldan/nativebridge/pkg/logger"
)

func NewDefaultPanicHandler(log contracts.Logger) PanicHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &defaultPanicHandler{logger: log}
}

func NewDefaultErrorHandler(log contracts.Logger) ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &defaultErrorHandler{logger: log}
}

// New builds a sync bus unless WithAsyncMode(true) is given. Handlers default to
// logging through a discarding logger.
func New(opts ...Option) contracts.Bus {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.panicHandler == nil {
		cfg.panicHandler = NewDefaultPanicHandler(nil)
	}
	if cfg.errorHandler == nil {
		cfg.errorHandler = NewDefaultErrorHandler(nil)
	}
	return newBus(cfg)
}

// NewModule registers the bus. Settings come from the "events" config section
// (async, workers, publish_timeout) and opts are applied after them.
func NewModule(opts ...Option) contracts.AppModule {
	return &module{opts: opts}
}
