package messaging

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/utemix-lab/vovaipetrova-sub000/application/ports"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/events"
)

// MemoryBus is an in-process EventBus. Handlers run synchronously in
// subscription order; a failing handler is logged and does not stop the rest.
// Published events are retained for inspection, optionally capped.
type MemoryBus struct {
	mu        sync.RWMutex
	handlers  map[string][]ports.EventHandler
	published []events.DomainEvent
	retain    int
	logger    *zap.Logger
}

// NewMemoryBus creates a bus keeping at most retain published events
// (0 keeps none, a negative value keeps all).
func NewMemoryBus(retain int, logger *zap.Logger) *MemoryBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryBus{
		handlers: make(map[string][]ports.EventHandler),
		retain:   retain,
		logger:   logger,
	}
}

var _ ports.EventBus = (*MemoryBus)(nil)

// Subscribe registers a handler for an event type; "*" receives every event
func (b *MemoryBus) Subscribe(eventType string, handler ports.EventHandler) error {
	if handler == nil {
		return fmt.Errorf("nil handler for %s", eventType)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// Publish sends a single event
func (b *MemoryBus) Publish(ctx context.Context, event events.DomainEvent) error {
	return b.PublishBatch(ctx, []events.DomainEvent{event})
}

// PublishBatch dispatches events in order
func (b *MemoryBus) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	if len(domainEvents) == 0 {
		return nil
	}

	failureCount := 0
	for _, event := range domainEvents {
		b.record(event)

		b.mu.RLock()
		handlers := append(append([]ports.EventHandler(nil), b.handlers[event.GetEventType()]...), b.handlers["*"]...)
		b.mu.RUnlock()

		for _, h := range handlers {
			if !h.CanHandle(event.GetEventType()) {
				continue
			}
			if err := h.Handle(ctx, event); err != nil {
				failureCount++
				b.logger.Warn("Failed to dispatch event locally",
					zap.String("eventType", event.GetEventType()),
					zap.String("aggregateID", event.GetAggregateID()),
					zap.Error(err))
			}
		}
	}

	if failureCount > 0 {
		return fmt.Errorf("failed to dispatch %d handler calls", failureCount)
	}
	return nil
}

func (b *MemoryBus) record(event events.DomainEvent) {
	if b.retain == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
	if b.retain > 0 && len(b.published) > b.retain {
		b.published = b.published[len(b.published)-b.retain:]
	}
}

// Published returns the retained events, oldest first
func (b *MemoryBus) Published() []events.DomainEvent {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]events.DomainEvent(nil), b.published...)
}

// HandlerFunc adapts a function to an EventHandler for the given types
type HandlerFunc struct {
	Types []string
	Fn    func(ctx context.Context, event events.DomainEvent) error
}

// Handle processes an event
func (h HandlerFunc) Handle(ctx context.Context, event events.DomainEvent) error {
	return h.Fn(ctx, event)
}

// CanHandle reports whether the event type is one of Types; empty Types accepts all
func (h HandlerFunc) CanHandle(eventType string) bool {
	if len(h.Types) == 0 {
		return true
	}
	for _, t := range h.Types {
		if t == eventType {
			return true
		}
	}
	return false
}
