package contracts

// ServiceHandle is a native-backed module instance. The registry calls Initialize once
// after construction and Invalidate once at session teardown.
type ServiceHandle interface {
	Initialize() error
	Invalidate() error
}

// ModuleDelegate is the data source behind the registry's provider chain. Factories must
// not call back into the registry. A factory returning (nil, nil) produced nothing.
type ModuleDelegate interface {
	IsPrimaryRegistered(name string) bool
	IsFallbackRegistered(name string) bool
	CreatePrimary(name string) (ServiceHandle, error)
	CreateFallback(name string) (ServiceHandle, error)
	EagerInitNames() []string
}

type ModuleRegistry interface {
	Get(name string) (ServiceHandle, error)
	Has(name string) bool
	ListCreated() []ServiceHandle
	EagerInitNames() []string
	Invalidate() error
}
