package registry

import (
	"github.com/google/uuid"

	"github.com/shuldan/nativebridge/pkg/contracts"
	"github.com/shuldan/nativebridge/pkg/logger"
)

type Option func(*config)

type config struct {
	logger  contracts.Logger
	bus     contracts.Bus
	session string
}

func defaultConfig() config {
	return config{
		logger:  logger.Nop(),
		session: uuid.NewString(),
	}
}

func WithLogger(l contracts.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithEventBus publishes module lifecycle diagnostics. Listeners run on the creating
// goroutine in sync mode and must not call Get for the module being reported.
func WithEventBus(bus contracts.Bus) Option {
	return func(c *config) {
		c.bus = bus
	}
}

func WithSessionID(id string) Option {
	return func(c *config) {
		if id != "" {
			c.session = id
		}
	}
}
