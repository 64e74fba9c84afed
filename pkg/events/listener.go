package events

import (
	"context"
	"fmt"
	"reflect"

	"github.com/shuldan/nativebridge/pkg/errors"
)

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
)

// listener is a subscribed callback bound to the single event type it accepts.
type listener struct {
	eventType reflect.Type
	source    any
	call      func(ctx context.Context, event any) error
}

func (l *listener) String() string {
	return reflect.TypeOf(l.source).String()
}

// newListener accepts func(context.Context, T) error or a value whose Handle method has
// that signature.
func newListener(source any) (*listener, error) {
	v := reflect.ValueOf(source)
	if !v.IsValid() {
		return nil, ErrInvalidListener
	}
	if v.Kind() == reflect.Func {
		return bind(source, v, ErrInvalidListenerFunction)
	}
	if m := v.MethodByName("Handle"); m.IsValid() {
		return bind(source, m, ErrInvalidListenerMethod)
	}
	return nil, ErrInvalidListener
}

func bind(source any, fn reflect.Value, invalid *errors.Error) (*listener, error) {
	t := fn.Type()
	switch {
	case t.NumIn() != 2 || t.NumOut() != 1:
		return nil, invalid.WithDetail("signature", t.String())
	case t.In(0) != contextType:
		return nil, invalid.WithDetail("reason", "first argument must be context.Context")
	case t.Out(0) != errorType:
		return nil, invalid.WithDetail("reason", "return type must be error")
	}

	return &listener{
		eventType: t.In(1),
		source:    source,
		call: func(ctx context.Context, event any) error {
			// Indirection keeps a nil ctx typed as context.Context for Call.
			out := fn.Call([]reflect.Value{reflect.ValueOf(&ctx).Elem(), reflect.ValueOf(event)})
			err, _ := out[0].Interface().(error)
			return err
		},
	}, nil
}

func (l *listener) handle(ctx context.Context, event any) error {
	if got := reflect.TypeOf(event); got != l.eventType {
		return ErrInvalidEventType.
			WithDetail("reason", fmt.Sprintf("listener expects %s, got %T", l.eventType, event))
	}
	return l.call(ctx, event)
}
