package events

import "time"

type PanicHandler interface {
	Handle(event any, listener any, panicValue any, stack []byte)
}

type ErrorHandler interface {
	Handle(event any, listener any, err error)
}

type Option func(*config)

type config struct {
	panicHandler   PanicHandler
	errorHandler   ErrorHandler
	async          bool
	workers        int
	publishTimeout time.Duration
}

func defaultConfig() config {
	return config{
		workers:        1,
		publishTimeout: 5 * time.Second,
	}
}

func WithPanicHandler(h PanicHandler) Option {
	return func(c *config) {
		c.panicHandler = h
	}
}

func WithErrorHandler(h ErrorHandler) Option {
	return func(c *config) {
		c.errorHandler = h
	}
}

func WithAsyncMode(async bool) Option {
	return func(c *config) {
		c.async = async
	}
}

// WithWorkerCount sets the async pool size; values below one become one.
func WithWorkerCount(count int) Option {
	return func(c *config) {
		c.workers = max(count, 1)
	}
}

// WithPublishTimeout bounds how long an async Publish waits for queue space.
func WithPublishTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.publishTimeout = d
		}
	}
}
