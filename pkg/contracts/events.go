package contracts

import "context"

// Bus delivers typed events. Subscribe takes a (*Event)(nil) marker and a listener that is
// either func(context.Context, Event) error or a value with such a Handle method.
type Bus interface {
	Subscribe(eventType any, listener any) error
	Publish(ctx context.Context, event any) error
	Close() error
}
