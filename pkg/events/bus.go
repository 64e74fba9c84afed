package events

import (
	"context"
	"reflect"
	"runtime/debug"
	"sync"
	"time"

	"github.com/shuldan/nativebridge/pkg/contracts"
)

type delivery struct {
	ctx      context.Context
	event    any
	listener *listener
}

// bus dispatches by the dynamic type of the published value. In sync mode listeners run
// on the publishing goroutine in subscription order; in async mode a fixed worker pool
// drains a bounded queue.
type bus struct {
	cfg config

	mu        sync.RWMutex
	listeners map[reflect.Type][]*listener
	closed    bool

	queue   chan delivery
	workers sync.WaitGroup
}

var _ contracts.Bus = (*bus)(nil)

func newBus(cfg config) *bus {
	b := &bus{
		cfg:       cfg,
		listeners: make(map[reflect.Type][]*listener),
	}
	if cfg.async {
		b.queue = make(chan delivery, cfg.workers*10)
		for range cfg.workers {
			b.workers.Add(1)
			go b.work()
		}
	}
	return b
}

func (b *bus) Subscribe(eventType any, source any) error {
	marker := reflect.TypeOf(eventType)
	if marker == nil {
		return ErrInvalidEventType.WithDetail("reason", "eventType is nil")
	}
	if marker.Kind() != reflect.Pointer || marker.Elem().Kind() != reflect.Struct {
		return ErrInvalidEventType.WithDetail("reason", "eventType must be a pointer to struct")
	}
	want := marker.Elem()

	l, err := newListener(source)
	if err != nil {
		return err
	}
	if l.eventType != want {
		return ErrListenerTypeMismatch.
			WithDetail("expected_type", want.String()).
			WithDetail("actual_type", l.eventType.String())
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBusClosed
	}
	b.listeners[want] = append(b.listeners[want], l)
	return nil
}

func (b *bus) Publish(ctx context.Context, event any) error {
	if event == nil {
		return nil
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrPublishOnClosedBus
	}
	targets := b.listeners[reflect.TypeOf(event)]
	if len(targets) == 0 {
		b.mu.RUnlock()
		return nil
	}
	if b.cfg.async {
		// Holding the read lock keeps Close from closing the queue under a pending send.
		defer b.mu.RUnlock()
		return b.enqueue(ctx, event, targets)
	}
	b.mu.RUnlock()

	for _, l := range targets {
		if err := b.deliver(ctx, event, l); err != nil {
			return ErrListenerFailed.
				WithDetail("event", reflect.TypeOf(event).String()).
				WithCause(err)
		}
	}
	return nil
}

func (b *bus) enqueue(ctx context.Context, event any, targets []*listener) error {
	timer := time.NewTimer(b.cfg.publishTimeout)
	defer timer.Stop()
	for _, l := range targets {
		select {
		case b.queue <- delivery{ctx: ctx, event: event, listener: l}:
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return ErrEventChannelBlocked.WithDetail("timeout", b.cfg.publishTimeout.String())
		}
	}
	return nil
}

// Close rejects further use and waits for queued deliveries to finish.
func (b *bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	if b.queue != nil {
		close(b.queue)
	}
	b.workers.Wait()
	return nil
}

func (b *bus) work() {
	defer b.workers.Done()
	for d := range b.queue {
		_ = b.deliver(d.ctx, d.event, d.listener)
	}
}

// deliver runs one listener, reporting panics and errors to the configured handlers.
// A recovered panic is not returned as an error.
func (b *bus) deliver(ctx context.Context, event any, l *listener) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.cfg.panicHandler.Handle(event, l, r, debug.Stack())
			err = nil
		}
	}()

	if err = l.handle(ctx, event); err != nil {
		b.cfg.errorHandler.Handle(event, l, err)
	}
	return err
}
