package registry

import "time"

// ModuleCreateStarted is published when a caller becomes the creator of a module.
type ModuleCreateStarted struct {
	Session  string
	Name     string
	HolderID int64
}

// ModuleCreateEnded is published once per holder after the provider chain and
// Initialize have returned. Created is false for unrecognized names and failures.
type ModuleCreateEnded struct {
	Session  string
	Name     string
	HolderID int64
	Kind     Kind
	Created  bool
	Err      error
	Duration time.Duration
}

// ModuleInvalidated is published for every realized handle during teardown.
type ModuleInvalidated struct {
	Session  string
	Name     string
	HolderID int64
	Err      error
}
