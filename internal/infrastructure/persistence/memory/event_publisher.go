package memory

import (
	"context"
	"sync"

	"github.com/fitlife/dietplanner/internal/domain/shared"
	"github.com/fitlife/dietplanner/internal/ports/outbound"
	"go.uber.org/zap"
)

// EventPublisher dispatches domain events to in-process handlers and logs them
type EventPublisher struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	logger   *zap.Logger
}

// NewEventPublisher creates an in-process publisher
func NewEventPublisher(logger *zap.Logger) *EventPublisher {
	return &EventPublisher{
		handlers: make(map[string][]shared.EventHandler),
		logger:   logger.Named("event-publisher"),
	}
}

var _ outbound.EventPublisher = (*EventPublisher)(nil)

// Subscribe registers handler for events with the given name
func (p *EventPublisher) Subscribe(eventName string, handler shared.EventHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[eventName] = append(p.handlers[eventName], handler)
}

// Publish runs the subscribed handlers synchronously. The first handler
// error is returned after all handlers ran.
func (p *EventPublisher) Publish(ctx context.Context, event shared.DomainEvent) error {
	p.mu.RLock()
	handlers := p.handlers[event.EventName()]
	p.mu.RUnlock()

	p.logger.Info("Domain event",
		zap.String("event", event.EventName()),
		zap.String("user_id", event.AggregateID()),
		zap.Time("occurred_at", event.OccurredAt()),
		zap.Int("handlers", len(handlers)),
	)

	var first error
	for _, h := range handlers {
		if err := h(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
