package registry

import (
	"github.com/shuldan/nativebridge/pkg/contracts"
)

// Kind tags which provider claimed a module name.
type Kind uint8

const (
	KindUnrecognized Kind = iota
	KindPrimary
	KindFallback
)

func (k Kind) String() string {
	switch k {
	case KindPrimary:
		return "primary"
	case KindFallback:
		return "fallback"
	default:
		return "unrecognized"
	}
}

type provider interface {
	provides(name string) bool
	provide(name string) (contracts.ServiceHandle, error)
}

type primaryProvider struct {
	delegate contracts.ModuleDelegate
}

func (p primaryProvider) provides(name string) bool {
	return p.delegate.IsPrimaryRegistered(name)
}

func (p primaryProvider) provide(name string) (contracts.ServiceHandle, error) {
	return p.delegate.CreatePrimary(name)
}

type fallbackProvider struct {
	delegate contracts.ModuleDelegate
}

func (p fallbackProvider) provides(name string) bool {
	return p.delegate.IsFallbackRegistered(name)
}

func (p fallbackProvider) provide(name string) (contracts.ServiceHandle, error) {
	return p.delegate.CreateFallback(name)
}

// providerChain consults primary before fallback. The first provider that claims a
// name owns it; a claimed name never reaches the next provider.
type providerChain struct {
	providers [2]provider
	kinds     [2]Kind
}

func newProviderChain(delegate contracts.ModuleDelegate) providerChain {
	return providerChain{
		providers: [2]provider{primaryProvider{delegate}, fallbackProvider{delegate}},
		kinds:     [2]Kind{KindPrimary, KindFallback},
	}
}

func (c providerChain) resolve(name string) (Kind, provider) {
	for i, p := range c.providers {
		if p.provides(name) {
			return c.kinds[i], p
		}
	}
	return KindUnrecognized, nil
}
