// Package event is an in-process event bus. Listeners registered with Listen
// run before Fire returns; ListenAsync listeners run on a worker pool.
//
//	bus := event.NewBus(pool)
//	bus.Listen(EventTestsChanged, dropCache)
//	bus.ListenAsync(EventBookingCreated, audit)
//	bus.Fire(ctx, EventBookingCreated, id)
package event

import (
	"context"
	"errors"
	"sync"

	"github.com/shashiranjanraj/diagnocare/pkg/logger"
	"github.com/shashiranjanraj/diagnocare/pkg/metrics"
	"github.com/shashiranjanraj/diagnocare/pkg/workerpool"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload any)

// Submitter runs tasks in the background; *workerpool.Pool satisfies it.
type Submitter interface {
	Submit(task func()) error
}

type listener struct {
	h     Handler
	async bool
}

// Bus dispatches named events to registered listeners.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]listener
	pool     Submitter
}

// NewBus creates a Bus. With a nil pool async listeners run inline.
func NewBus(pool Submitter) *Bus {
	return &Bus{handlers: map[string][]listener{}, pool: pool}
}

// Listen registers a handler that runs before Fire returns.
func (b *Bus) Listen(event string, h Handler) {
	b.add(event, listener{h: h})
}

// ListenAsync registers a handler that runs on the pool after Fire returns.
// It gets a context detached from the caller's cancellation.
func (b *Bus) ListenAsync(event string, h Handler) {
	b.add(event, listener{h: h, async: true})
}

// Fire runs every synchronous listener for event in registration order and
// queues the asynchronous ones. If the pool is full an async listener runs
// inline.
func (b *Bus) Fire(ctx context.Context, event string, payload any) {
	metrics.RecordEvent(event, "sync")
	var queued []Handler
	for _, l := range b.listeners(event) {
		if l.async && b.pool != nil {
			queued = append(queued, l.h)
			continue
		}
		l.h(ctx, payload)
	}
	if len(queued) == 0 {
		return
	}

	metrics.RecordEvent(event, "async")
	bg := context.WithoutCancel(ctx)
	for _, h := range queued {
		h := h
		err := b.pool.Submit(func() { h(bg, payload) })
		switch {
		case err == nil:
		case errors.Is(err, workerpool.ErrPoolFull):
			logger.WithCtx(ctx).Warn("event pool full, running listener inline", "event", event)
			h(bg, payload)
		default:
			logger.WithCtx(ctx).Warn("event dropped", "event", event, "error", err)
		}
	}
}

// Flush removes all listeners.
func (b *Bus) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = map[string][]listener{}
}

func (b *Bus) add(event string, l listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], l)
}

func (b *Bus) listeners(event string) []listener {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]listener(nil), b.handlers[event]...)
}
