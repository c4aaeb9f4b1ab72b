package events

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"

	domainEvents "nsportal/internal/domain/events"
)

// Handler reacts to one published event.
type Handler func(ctx context.Context, ev domainEvents.Event)

type subscription struct {
	id      int
	handler Handler
}

// Bus is an in-process publish/subscribe hub.
//
// Publish is synchronous: handlers run on the publisher's goroutine in
// subscription order, so a publisher knows every subscriber has seen the
// event when Publish returns. A panicking handler is logged and skipped.
type Bus struct {
	mu       sync.RWMutex
	handlers map[domainEvents.EventType][]subscription
	nextID   int
	logger   *slog.Logger
}

// NewBus creates an empty bus
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		handlers: make(map[domainEvents.EventType][]subscription),
		logger:   logger,
	}
}

// Subscribe registers h for events of type t. The returned function removes
// the subscription; calling it more than once is harmless.
func (b *Bus) Subscribe(t domainEvents.EventType, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[t] = append(b.handlers[t], subscription{id: id, handler: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[t]
		for i, s := range subs {
			if s.id == id {
				b.handlers[t] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers ev to every handler subscribed to its type.
func (b *Bus) Publish(ctx context.Context, ev domainEvents.Event) {
	b.mu.RLock()
	subs := make([]subscription, len(b.handlers[ev.Type()]))
	copy(subs, b.handlers[ev.Type()])
	b.mu.RUnlock()

	if len(subs) == 0 {
		b.logger.Debug("event has no subscribers", "type", ev.Type())
		return
	}

	for _, s := range subs {
		b.dispatch(ctx, ev, s)
	}
}

// SubscriberCount returns the number of handlers registered for t.
func (b *Bus) SubscriberCount(t domainEvents.EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[t])
}

func (b *Bus) dispatch(ctx context.Context, ev domainEvents.Event, s subscription) {
	defer func() {
		if err := recover(); err != nil {
			b.logger.Error("event handler panicked",
				"type", ev.Type(),
				"subscription", s.id,
				"error", err,
				"stack", string(debug.Stack()),
			)
		}
	}()

	s.handler(ctx, ev)
}
