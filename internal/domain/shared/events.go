// Package shared holds the types every bounded context builds on
package shared

import (
	"context"
	"time"
)

// DomainEvent is a fact recorded after a committed write. AggregateID names
// the user the event belongs to and is used as the partition key downstream.
type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// EventHandler reacts to a published event
type EventHandler func(ctx context.Context, event DomainEvent) error
