package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fitlife/dietplanner/internal/domain/shared"
	"github.com/fitlife/dietplanner/internal/ports/outbound"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// eventEnvelope is the wire format of published domain events
type eventEnvelope struct {
	Event       string      `json:"event"`
	AggregateID string      `json:"aggregate_id"`
	OccurredAt  time.Time   `json:"occurred_at"`
	Payload     interface{} `json:"payload"`
}

// EventPublisher publishes domain events on a Redis pub/sub channel
type EventPublisher struct {
	client  redis.UniversalClient
	channel string
	logger  *zap.Logger
}

// NewEventPublisher creates a publisher writing to channel
func NewEventPublisher(client redis.UniversalClient, channel string, logger *zap.Logger) outbound.EventPublisher {
	return &EventPublisher{
		client:  client,
		channel: channel,
		logger:  logger.Named("event-publisher"),
	}
}

// Publish encodes event as JSON and sends it to the channel
func (p *EventPublisher) Publish(ctx context.Context, event shared.DomainEvent) error {
	body, err := json.Marshal(eventEnvelope{
		Event:       event.EventName(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt(),
		Payload:     event,
	})
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.EventName(), err)
	}

	receivers, err := p.client.Publish(ctx, p.channel, body).Result()
	if err != nil {
		return fmt.Errorf("publish event %s: %w", event.EventName(), err)
	}

	p.logger.Debug("Event published",
		zap.String("event", event.EventName()),
		zap.String("channel", p.channel),
		zap.Int64("receivers", receivers),
	)
	return nil
}
