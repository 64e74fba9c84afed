package contracts

import (
	"context"
	"time"
)

// Container keys shared between modules.
const (
	ConfigModuleName   = "config"
	LoggerModuleName   = "logger"
	EventBusModuleName = "events"
	RegistryModuleName = "modules.registry"
)

// DIContainer resolves named values. Factories run at most once per successful resolve.
type DIContainer interface {
	Has(name string) bool
	Instance(name string, value any) error
	Factory(name string, factory func(c DIContainer) (any, error)) error
	Resolve(name string) (any, error)
}

type AppContext interface {
	Ctx() context.Context
	Container() DIContainer
	Stop()
	IsRunning() bool

	AppName() string
	Version() string
	Environment() string
	StartTime() time.Time
	StopTime() time.Time
}

// AppModule is registered into the container first, then started in registration order
// and stopped in reverse.
type AppModule interface {
	Name() string
	Register(container DIContainer) error
	Start(ctx AppContext) error
	Stop(ctx AppContext) error
}

type AppRegistry interface {
	Register(module AppModule) error
	All() []AppModule
	Shutdown(ctx AppContext) error
}

type App interface {
	Register(module AppModule) error
	Run() error
}
