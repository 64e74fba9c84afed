package events

import "github.com/shuldan/nativebridge/pkg/errors"

var newEventCode = errors.WithPrefix("EVENTS")

// Subscription errors.
var (
	ErrInvalidListener         = newEventCode().New("listener must be a func(context.Context, T) error or have a matching Handle method")
	ErrInvalidListenerFunction = newEventCode().New("listener func must look like func(context.Context, T) error")
	ErrInvalidListenerMethod   = newEventCode().New("listener Handle method must look like Handle(context.Context, T) error")
	ErrListenerTypeMismatch    = newEventCode().New("listener handles {{.actual_type}}, subscribed to {{.expected_type}}")
	ErrInvalidEventType        = newEventCode().New("invalid event type: {{.reason}}")
	ErrBusClosed               = newEventCode().New("event bus is closed, subscribe rejected")
)

// Delivery errors.
var (
	ErrPublishOnClosedBus  = newEventCode().New("event bus is closed, publish rejected")
	ErrEventChannelBlocked = newEventCode().New("event queue is full after {{.timeout}}")
	ErrListenerFailed      = newEventCode().New("listener for {{.event}} failed")
)

// Container wiring errors.
var (
	ErrBusNotFound           = newEventCode().New("events bus not found")
	ErrInvalidBusInstance    = newEventCode().New("container value for the events bus is not a contracts.Bus")
	ErrInvalidLoggerInstance = newEventCode().New("container value for the logger is not a contracts.Logger")
)
