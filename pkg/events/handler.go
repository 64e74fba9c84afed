package events

import (
	"fmt"

	"github.com/shuldan/nativebridge/pkg/contracts"
)

type defaultPanicHandler struct {
	logger contracts.Logger
}

func (d *defaultPanicHandler) Handle(event any, listener any, panicValue any, stack []byte) {
	d.logger.Critical("event listener panicked",
		"event", fmt.Sprintf("%T", event),
		"listener", fmt.Sprint(listener),
		"panic", fmt.Sprint(panicValue),
		"stack", string(stack),
	)
}

type defaultErrorHandler struct {
	logger contracts.Logger
}

func (d *defaultErrorHandler) Handle(event any, listener any, err error) {
	d.logger.Error("event listener failed",
		"event", fmt.Sprintf("%T", event),
		"listener", fmt.Sprint(listener),
		"error", err,
	)
}
